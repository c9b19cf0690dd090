// Package event publishes CPSV-AP event harvests.
package event

import (
	_ "embed"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

// Name is the kind name used on the command line.
const Name = "event"

const (
	Harvested runtime.EventType = "EVENT_HARVESTED"
	Reasoned  runtime.EventType = "EVENT_REASONED"
	Removed   runtime.EventType = "EVENT_REMOVED"
)

//go:embed event_event.avsc
var schema string

var routes = resources.Routes{
	Removed: Removed,
	Keys: map[string]resources.Route{
		"events.harvested": {
			EventType: Harvested,
			Endpoint:  &resources.Endpoint{API: resources.HarvesterAPI, Path: "/events", Query: "catalogrecords=true"},
		},
		// Reasoned graphs are not published for this kind.
		"events.reasoned": {EventType: Reasoned},
	},
}

// Kind returns the event resource kind.
func Kind() resources.Kind {
	return resources.Kind{
		Name:         Name,
		ConsumerName: "fdk-event-event-publisher",
		OutputTopic:  "event-events",
		RoutingKeys:  []string{"events.harvested"},
		SchemaName:   "no.fdk.event.EventEvent",
		Schema:       schema,
		Routes:       routes,
	}
}

func init() {
	resources.Register(Kind())
}
