// Package service publishes public service harvests. Routing keys use the
// public_services prefix.
package service

import (
	_ "embed"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

// Name is the kind name used on the command line.
const Name = "service"

const (
	Harvested runtime.EventType = "SERVICE_HARVESTED"
	Reasoned  runtime.EventType = "SERVICE_REASONED"
	Removed   runtime.EventType = "SERVICE_REMOVED"
)

//go:embed service_event.avsc
var schema string

var routes = resources.Routes{
	Removed: Removed,
	Keys: map[string]resources.Route{
		"public_services.harvested": {
			EventType: Harvested,
			Endpoint:  &resources.Endpoint{API: resources.HarvesterAPI, Path: "/public-services", Query: "catalogrecords=true"},
		},
		// Reasoned graphs are not published for this kind.
		"public_services.reasoned": {EventType: Reasoned},
	},
}

// Kind returns the service resource kind.
func Kind() resources.Kind {
	return resources.Kind{
		Name:         Name,
		ConsumerName: "fdk-service-event-publisher",
		OutputTopic:  "service-events",
		RoutingKeys:  []string{"public_services.harvested"},
		SchemaName:   "no.fdk.service.ServiceEvent",
		Schema:       schema,
		Routes:       routes,
	}
}

func init() {
	resources.Register(Kind())
}
