// Package transport builds the Watermill subscriber that consumes harvest
// reports from RabbitMQ and the publisher that writes events to Kafka.
// Constructors go through package-level factories so tests can replace the
// broker clients.
package transport
