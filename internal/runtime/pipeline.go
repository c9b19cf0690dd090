package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	loggingpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/logging"
	metadatapkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/metadata"
	reportpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/report"
)

// EventConfig names the output of a pipeline.
type EventConfig struct {
	// Name is the fully qualified Avro record name; it doubles as the
	// registry subject.
	Name   string
	Topic  string
	Schema string
}

func (c EventConfig) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errspkg.ErrSchemaNameRequired)
	}
	if c.Topic == "" {
		errs = append(errs, errspkg.ErrTopicRequired)
	}
	if c.Schema == "" {
		errs = append(errs, fmt.Errorf("%w: schema body is empty", errspkg.ErrSchemaNameRequired))
	}
	return errors.Join(errs...)
}

// ResourceConfig names the input of a pipeline.
type ResourceConfig struct {
	ConsumerName string
	RoutingKeys  []string
}

func (c ResourceConfig) Validate() error {
	var errs []error
	if c.ConsumerName == "" {
		errs = append(errs, errspkg.ErrConsumerNameRequired)
	}
	if len(c.RoutingKeys) == 0 {
		errs = append(errs, errspkg.ErrRoutingKeysRequired)
	}
	return errors.Join(errs...)
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// RequeueOnPublishFailure makes Handle return publish failures so the
// subscriber nacks the delivery. Every other failure is still acknowledged.
func RequeueOnPublishFailure(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.requeueOnPublishFailure = enabled
	}
}

// Pipeline turns one harvest report message into events.
type Pipeline struct {
	resolver  Resolver
	publisher Publisher
	event     EventConfig
	metrics   *Metrics
	logger    loggingpkg.ServiceLogger

	requeueOnPublishFailure bool
	now                     func() time.Time
}

// NewPipeline validates its collaborators. metrics may be nil.
func NewPipeline(resolver Resolver, publisher Publisher, event EventConfig, metrics *Metrics, logger loggingpkg.ServiceLogger, opts ...PipelineOption) (*Pipeline, error) {
	if resolver == nil {
		return nil, errspkg.ErrResolverRequired
	}
	if publisher == nil {
		return nil, errspkg.ErrPublisherRequired
	}
	if logger == nil {
		return nil, errspkg.ErrLoggerRequired
	}
	if event.Topic == "" {
		return nil, errspkg.ErrTopicRequired
	}
	if event.Name == "" {
		return nil, errspkg.ErrSchemaNameRequired
	}

	p := &Pipeline{
		resolver:  resolver,
		publisher: publisher,
		event:     event,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Handle is the router handler. Failures are logged and counted; the
// delivery is acknowledged unless requeueing applies.
func (p *Pipeline) Handle(msg *message.Message) error {
	start := p.now()
	routingKey := metadatapkg.RoutingKeyOf(msg)

	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if id := middleware.MessageCorrelationID(msg); id != "" {
		ctx = withCorrelationID(ctx, id)
	}

	err := p.processRecovered(ctx, routingKey, msg.Payload)
	elapsed := p.now().Sub(start)

	fields := loggingpkg.LogFields{
		"routing_key":    routingKey,
		"message_uuid":   msg.UUID,
		"elapsed_millis": elapsed.Milliseconds(),
	}
	if err != nil {
		fields["error_kind"] = errspkg.Kind(err)
		p.logger.Error("failed while handling message", err, fields)
		p.metrics.ObserveMessage(statusError, elapsed)
	} else {
		p.logger.Info("message handled successfully", fields)
		p.metrics.ObserveMessage(statusSuccess, elapsed)
	}

	if err != nil && p.requeueOnPublishFailure && errors.Is(err, errspkg.ErrPublish) {
		return err
	}
	return nil
}

// Process decodes payload and publishes one event per resource. Each report
// is handled in turn, changed resources before removed ones. The first error
// stops the message; events already published stay published.
func (p *Pipeline) Process(ctx context.Context, routingKey string, payload []byte) error {
	reports, err := reportpkg.Decode(payload)
	if err != nil {
		return err
	}

	changed, removed := reportpkg.Counts(reports)
	p.logger.Info("processing event", loggingpkg.LogFields{
		"routing_key":            routingKey,
		"reports":                len(reports),
		"changed_resource_count": changed,
		"removed_resource_count": removed,
	})

	for _, r := range reports {
		for _, res := range r.Changed() {
			if err := p.handleResource(ctx, routingKey, res.FdkID, r.Timestamp, CreateOrUpdate); err != nil {
				return err
			}
		}
		for _, res := range r.RemovedResources {
			if err := p.handleResource(ctx, routingKey, res.FdkID, r.Timestamp, Remove); err != nil {
				return err
			}
		}
	}
	return nil
}

// processRecovered runs Process and turns a panic into ErrPanic, so the
// delivery follows the acknowledge policy instead of reaching the router.
func (p *Pipeline) processRecovered(ctx context.Context, routingKey string, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errspkg.ErrPanic, r)
		}
	}()
	return p.Process(ctx, routingKey, payload)
}

func (p *Pipeline) handleResource(ctx context.Context, routingKey, fdkID string, timestamp int64, change ChangeKind) error {
	event, err := p.resolver.Resolve(ctx, routingKey, fdkID, timestamp, change)
	if err != nil {
		return fmt.Errorf("resolve %s (%s): %w", fdkID, change, err)
	}
	if event == nil {
		p.logger.Debug("no event for resource", loggingpkg.LogFields{
			"routing_key": routingKey,
			"fdk_id":      fdkID,
			"change":      change.String(),
		})
		return nil
	}

	if err := p.publisher.Publish(ctx, p.event, event); err != nil {
		return err
	}

	p.metrics.EventPublished(event.Type)
	p.logger.Debug("event published", loggingpkg.LogFields{
		"fdk_id":     event.FdkID,
		"event_type": string(event.Type),
		"topic":      p.event.Topic,
	})
	return nil
}

type correlationIDKey struct{}

func withCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

func correlationIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
