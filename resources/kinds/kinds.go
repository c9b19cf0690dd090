// Package kinds imports all built-in resource kinds for auto-registration.
// Import this package to have every kind registered with the default registry.
package kinds

import (
	// Import all kinds for side-effect registration
	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/concept"
	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/dataservice"
	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/dataset"
	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/event"
	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/informationmodel"
	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/service"
)
