package metadata

import "github.com/ThreeDotsLabs/watermill/message"

// FromWatermill copies Watermill metadata.
func FromWatermill(md message.Metadata) Metadata {
	result := make(Metadata, len(md))
	for k, v := range md {
		result[k] = v
	}
	return result
}

// ToWatermill copies metadata into a Watermill map.
func ToWatermill(md Metadata) message.Metadata {
	wm := make(message.Metadata, len(md))
	for k, v := range md {
		wm[k] = v
	}
	return wm
}

// RoutingKeyOf returns the routing key stamped on msg by the AMQP unmarshaler.
func RoutingKeyOf(msg *message.Message) string {
	if msg == nil {
		return ""
	}
	return msg.Metadata.Get(RoutingKey)
}

// ForEvent builds the headers of an outgoing event. An empty correlationID
// is left out.
func ForEvent(eventType, fdkID, correlationID string) message.Metadata {
	return ToWatermill(New(FdkID, fdkID, EventType, eventType).With(CorrelationID, correlationID))
}
