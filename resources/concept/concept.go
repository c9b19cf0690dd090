// Package concept publishes SKOS concept harvests and their reasoned graphs.
package concept

import (
	_ "embed"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

// Name is the kind name used on the command line.
const Name = "concept"

const (
	Harvested runtime.EventType = "CONCEPT_HARVESTED"
	Reasoned  runtime.EventType = "CONCEPT_REASONED"
	Removed   runtime.EventType = "CONCEPT_REMOVED"
)

//go:embed concept_event.avsc
var schema string

var routes = resources.Routes{
	Removed: Removed,
	Keys: map[string]resources.Route{
		"concepts.harvested": {
			EventType: Harvested,
			Endpoint:  &resources.Endpoint{API: resources.HarvesterAPI, Path: "/concepts"},
		},
		"concepts.reasoned": {
			EventType: Reasoned,
			Endpoint:  &resources.Endpoint{API: resources.ReasoningAPI, Path: "/concepts"},
		},
	},
}

// Kind returns the concept resource kind.
func Kind() resources.Kind {
	return resources.Kind{
		Name:         Name,
		ConsumerName: "fdk-concept-event-publisher",
		OutputTopic:  "concept-events",
		RoutingKeys:  []string{"concepts.harvested", "concepts.reasoned"},
		SchemaName:   "no.fdk.concept.ConceptEvent",
		Schema:       schema,
		Routes:       routes,
	}
}

func init() {
	resources.Register(Kind())
}
