// Package dataservice publishes data service harvests and their reasoned graphs.
package dataservice

import (
	_ "embed"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

// Name is the kind name used on the command line.
const Name = "dataservice"

const (
	Harvested runtime.EventType = "DATA_SERVICE_HARVESTED"
	Reasoned  runtime.EventType = "DATA_SERVICE_REASONED"
	Removed   runtime.EventType = "DATA_SERVICE_REMOVED"
)

//go:embed dataservice_event.avsc
var schema string

var routes = resources.Routes{
	Removed: Removed,
	Keys: map[string]resources.Route{
		"dataservices.harvested": {
			EventType: Harvested,
			Endpoint:  &resources.Endpoint{API: resources.HarvesterAPI, Path: "/dataservices"},
		},
		"dataservices.reasoned": {
			EventType: Reasoned,
			Endpoint:  &resources.Endpoint{API: resources.ReasoningAPI, Path: "/data-services"},
		},
	},
}

// Kind returns the dataservice resource kind.
func Kind() resources.Kind {
	return resources.Kind{
		Name:         Name,
		ConsumerName: "fdk-data-service-event-publisher",
		OutputTopic:  "data-service-events",
		RoutingKeys:  []string{"dataservices.harvested", "dataservices.reasoned"},
		SchemaName:   "no.fdk.dataservice.DataServiceEvent",
		Schema:       schema,
		Routes:       routes,
	}
}

func init() {
	resources.Register(Kind())
}
