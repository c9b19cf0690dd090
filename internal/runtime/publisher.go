package runtime

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	idspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/ids"
	metadatapkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/metadata"
)

// Encoder turns an event into its wire bytes. schema.Encoder satisfies it.
type Encoder interface {
	Encode(subject string, native map[string]any) ([]byte, int, error)
}

// Publisher writes one event to the log broker.
type Publisher interface {
	Publish(ctx context.Context, cfg EventConfig, event *Event) error
}

// EventPublisher encodes events with the registered schema and hands them to
// a Watermill publisher. Each event gets exactly one attempt.
type EventPublisher struct {
	publisher message.Publisher
	encoder   Encoder
}

// NewEventPublisher wires a Watermill publisher and a schema encoder.
func NewEventPublisher(publisher message.Publisher, encoder Encoder) (*EventPublisher, error) {
	if publisher == nil {
		return nil, errspkg.ErrPublisherRequired
	}
	if encoder == nil {
		return nil, fmt.Errorf("%w: encoder is nil", errspkg.ErrPublisherRequired)
	}
	return &EventPublisher{publisher: publisher, encoder: encoder}, nil
}

// Publish encodes event against cfg.Name and writes it to cfg.Topic, keyed by
// the resource id.
func (p *EventPublisher) Publish(ctx context.Context, cfg EventConfig, event *Event) error {
	if event == nil {
		return errspkg.ErrEventRequired
	}
	if cfg.Topic == "" {
		return errspkg.ErrTopicRequired
	}

	ctx, span := otel.Tracer("fdk-event-publisher").Start(ctx, "PublishEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.type", string(event.Type)),
		attribute.String("event.fdk_id", event.FdkID),
		attribute.String("messaging.destination", cfg.Topic),
	)

	payload, schemaID, err := p.encoder.Encode(cfg.Name, event.Native())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return wrapOnce(err, errspkg.ErrEncoding, "encode %s", event.FdkID)
	}

	msg := message.NewMessage(idspkg.NewMessageID(), payload)
	msg.Metadata = metadatapkg.ForEvent(string(event.Type), event.Key(), correlationIDFrom(ctx))
	msg.Metadata.Set(metadatapkg.SchemaID, strconv.Itoa(schemaID))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(cfg.Topic, msg); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %s to %s: %w", errspkg.ErrPublish, event.FdkID, cfg.Topic, err)
	}
	return nil
}

// wrapOnce wraps err with sentinel unless err already carries it.
func wrapOnce(err, sentinel error, format string, args ...any) error {
	prefix := fmt.Sprintf(format, args...)
	if errors.Is(err, sentinel) {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return fmt.Errorf("%s: %w: %w", prefix, sentinel, err)
}
