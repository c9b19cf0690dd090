// Package informationmodel publishes information model harvests and their
// reasoned graphs.
package informationmodel

import (
	_ "embed"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

// Name is the kind name used on the command line.
const Name = "informationmodel"

const (
	Harvested runtime.EventType = "INFORMATION_MODEL_HARVESTED"
	Reasoned  runtime.EventType = "INFORMATION_MODEL_REASONED"
	Removed   runtime.EventType = "INFORMATION_MODEL_REMOVED"
)

//go:embed informationmodel_event.avsc
var schema string

var routes = resources.Routes{
	Removed: Removed,
	Keys: map[string]resources.Route{
		"informationmodels.harvested": {
			EventType: Harvested,
			Endpoint:  &resources.Endpoint{API: resources.HarvesterAPI, Path: "/informationmodels"},
		},
		"informationmodels.reasoned": {
			EventType: Reasoned,
			Endpoint:  &resources.Endpoint{API: resources.ReasoningAPI, Path: "/information-models"},
		},
	},
}

// Kind returns the informationmodel resource kind.
func Kind() resources.Kind {
	return resources.Kind{
		Name:         Name,
		ConsumerName: "fdk-information-model-event-publisher",
		OutputTopic:  "information-model-events",
		RoutingKeys:  []string{"informationmodels.harvested", "informationmodels.reasoned"},
		SchemaName:   "no.fdk.informationmodel.InformationModelEvent",
		Schema:       schema,
		Routes:       routes,
	}
}

func init() {
	resources.Register(Kind())
}
