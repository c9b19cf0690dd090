// Package metadata names the headers carried on incoming AMQP deliveries and
// outgoing Kafka messages.
package metadata

const (
	// RoutingKey carries the AMQP routing key of the delivery.
	RoutingKey = "routing_key"
	// FdkID carries the resource id; Kafka partitions on it.
	FdkID = "fdk_id"
	// EventType carries the event type symbol, e.g. DATASET_HARVESTED.
	EventType = "event_type"
	// SchemaID carries the registry id the payload was encoded with.
	SchemaID = "schema_id"
	// CorrelationID links the outgoing events to the report they came from.
	CorrelationID = "correlation_id"
)

// Metadata represents the headers carried alongside a message.
type Metadata map[string]string

func (m Metadata) cloneWithExtra(extra int) Metadata {
	cloned := make(Metadata, len(m)+extra)
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

// With returns a cloned metadata map containing the provided key/value pair.
// Empty values are skipped.
func (m Metadata) With(key, value string) Metadata {
	cloned := m.cloneWithExtra(1)
	if value != "" {
		cloned[key] = value
	}
	return cloned
}

// New constructs a Metadata map from alternating key/value pairs.
func New(pairs ...string) Metadata {
	md := make(Metadata, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		md[pairs[i]] = pairs[i+1]
	}
	return md
}
