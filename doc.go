// Package eventpublisher bridges harvest-completion notifications on RabbitMQ
// to schema-governed events on Kafka.
//
// A harvester publishes a JSON harvest report on the "harvests" topic
// exchange when a run finishes. The report lists the resources that were
// created or changed and the ones that disappeared. For every resource the
// publisher fetches the RDF graph from the harvester (or reasoning) API,
// encodes an event with the kind's Avro schema in the Confluent wire format
// and writes it to the kind's Kafka topic keyed by the resource id.
//
// One process serves one resource kind. Kinds live under resources/ and
// register themselves on import; resources/kinds pulls in all of them:
//   - dataset: datasets.harvested
//   - concept: concepts.harvested, concepts.reasoned
//   - dataservice: dataservices.harvested, dataservices.reasoned
//   - event: events.harvested
//   - informationmodel: informationmodels.harvested, informationmodels.reasoned
//   - service: public_services.harvested
//
// # Delivery
//
// Every delivery is acknowledged once handled, whether or not it produced
// all of its events. Failures are logged with their kind and counted in the
// processed_messages metric. Setting REQUEUE_ON_PUBLISH_FAILURE nacks
// deliveries whose Kafka write failed so the broker redelivers them.
//
// # Middleware
//
// The router runs correlation ID injection, debug message logging,
// OpenTelemetry tracing, the Watermill Prometheus metrics and panic recovery.
// Custom middleware can be added via ServiceDependencies.Middlewares.
//
// # Health
//
// HTTP_PORT serves /ping, /ready (once the router runs) and /metrics.
package eventpublisher
