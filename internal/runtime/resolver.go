package runtime

import (
	"context"
	"fmt"
	"strings"
)

// ChangeKind tells a resolver which list of a harvest report a resource came
// from.
type ChangeKind int

const (
	CreateOrUpdate ChangeKind = iota
	Remove
)

func (c ChangeKind) String() string {
	switch c {
	case CreateOrUpdate:
		return "create_or_update"
	case Remove:
		return "remove"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(c))
	}
}

// EventType is the Avro enum symbol of an event, e.g. DATASET_HARVESTED.
type EventType string

// Event is one resource change ready to be encoded.
type Event struct {
	Type  EventType
	FdkID string
	// Graph is the resource content. Empty for removals.
	Graph string
	// Timestamp is the harvest start time in epoch milliseconds.
	Timestamp int64
}

// Key is the Kafka message key.
func (e *Event) Key() string {
	return e.FdkID
}

// Native returns the event in goavro's native form for the event schemas.
func (e *Event) Native() map[string]any {
	return map[string]any{
		"type":      string(e.Type),
		"fdkId":     e.FdkID,
		"graph":     e.Graph,
		"timestamp": e.Timestamp,
	}
}

// Resolver turns one resource of a harvest report into an event. A nil event
// with a nil error means the resource produces no event.
//
// Implementations fail with ErrUnknownRoutingKey for create or update on a
// routing key they do not handle, and with ErrEnrichment when the resource
// content cannot be fetched. Remove never fetches.
type Resolver interface {
	Resolve(ctx context.Context, routingKey, fdkID string, timestamp int64, change ChangeKind) (*Event, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, routingKey, fdkID string, timestamp int64, change ChangeKind) (*Event, error)

func (f ResolverFunc) Resolve(ctx context.Context, routingKey, fdkID string, timestamp int64, change ChangeKind) (*Event, error) {
	return f(ctx, routingKey, fdkID, timestamp, change)
}

// RemovedEventType returns the removal symbol for a kind prefix, e.g.
// RemovedEventType("DATASET") is DATASET_REMOVED.
func RemovedEventType(prefix string) EventType {
	return EventType(strings.ToUpper(prefix) + "_REMOVED")
}
