/*
Package runtime provides the message pipeline behind every event publisher.

# Architecture Overview

The runtime package consumes harvest reports through a Watermill router,
turns every referenced resource into an event through a Resolver and writes
the Avro-encoded event to Kafka. A process runs a single handler bound to one
queue; the resource kind decides the routing keys, the output topic and the
schema.

# Package Structure

## Core Service (service.go)

The Service struct is the central orchestrator that wires together:
  - Message router (Watermill) with the signals plugin
  - RabbitMQ subscriber and Kafka publisher
  - Middleware chain
  - Schema registration and the Avro encoder
  - HTTP server for health and metrics

## Pipeline (pipeline.go)

Pipeline decodes a delivery into harvest reports and handles them in order,
changed resources before removed ones. The first failure stops the delivery.
Deliveries are acknowledged unless requeueing on publish failure is enabled.

## Resolution (resolver.go)

Resolver maps a routing key, resource id, timestamp and change kind to an
Event, or to nothing when the key produces no event.

## Publishing (publisher.go)

EventPublisher encodes an Event and produces it keyed by its fdk id.

## Middleware (middleware.go)

  - CorrelationID: Ensures message traceability
  - LogMessages: Debug logging of message payloads
  - Tracer: OpenTelemetry distributed tracing
  - Metrics: Watermill router metrics in Prometheus
  - Recoverer: Panic recovery

## Monitoring (metrics.go, http.go)

processed_messages, processing_time and published_events, served with /ping
and /ready.

# Sub-packages

  - config/: Environment configuration with validation
  - enrich/: Graph retrieval from the harvester and reasoning APIs
  - errors/: Sentinel errors and failure kinds
  - ids/: ULID generation for message IDs
  - jsoncodec/: JSON marshaling utilities
  - logging/: Logger interface and adapters
  - metadata/: Message metadata utilities
  - report/: Harvest report decoding
  - schema/: Schema registry clients and the wire format encoder
  - transport/: RabbitMQ subscriber and Kafka publisher

# Usage Example

	svc, err := runtime.TryNewService(conf, logger, runtime.Definition{
		Event: runtime.EventConfig{
			Name:   "no.fdk.dataset.DatasetEvent",
			Topic:  "dataset-events",
			Schema: datasetSchema,
		},
		Resource: runtime.ResourceConfig{
			ConsumerName: "fdk-dataset-event-publisher",
			RoutingKeys:  []string{"datasets.harvested"},
		},
		Resolver: resolver,
	}, runtime.ServiceDependencies{})
	if err != nil {
		return err
	}

	return svc.Start(ctx)
*/
package runtime
