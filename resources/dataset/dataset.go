// Package dataset publishes DCAT dataset harvests. Reasoned datasets are
// recognized but not published.
package dataset

import (
	_ "embed"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

// Name is the kind name used on the command line.
const Name = "dataset"

const (
	Harvested runtime.EventType = "DATASET_HARVESTED"
	Reasoned  runtime.EventType = "DATASET_REASONED"
	Removed   runtime.EventType = "DATASET_REMOVED"
)

//go:embed dataset_event.avsc
var schema string

var routes = resources.Routes{
	Removed: Removed,
	Keys: map[string]resources.Route{
		"datasets.harvested": {
			EventType: Harvested,
			Endpoint:  &resources.Endpoint{API: resources.HarvesterAPI, Path: "/datasets", Query: "catalogrecords=true"},
		},
		// Reasoned graphs are not published for this kind.
		"datasets.reasoned": {EventType: Reasoned},
	},
}

// Kind returns the dataset resource kind.
func Kind() resources.Kind {
	return resources.Kind{
		Name:         Name,
		ConsumerName: "fdk-dataset-event-publisher",
		OutputTopic:  "dataset-events",
		RoutingKeys:  []string{"datasets.harvested"},
		SchemaName:   "no.fdk.dataset.DatasetEvent",
		Schema:       schema,
		Routes:       routes,
	}
}

func init() {
	resources.Register(Kind())
}
