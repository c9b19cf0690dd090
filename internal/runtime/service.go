package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/plugin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	configpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/config"
	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	loggingpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/logging"
	schemapkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/schema"
	transportpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/transport"
)

// schemaCacheTTL bounds how long a resolved codec is reused before the
// registry is asked again.
const schemaCacheTTL = 10 * time.Minute

var routerRun = func(router *message.Router, ctx context.Context) error {
	return router.Run(ctx)
}

// Definition is what a resource kind contributes to a Service.
type Definition struct {
	Event    EventConfig
	Resource ResourceConfig
	Resolver Resolver
}

// ServiceDependencies holds the optional collaborators that the Service can use.
// Nil fields are built from the configuration.
type ServiceDependencies struct {
	Subscriber    message.Subscriber
	Publisher     message.Publisher
	SchemaClients []schemapkg.Client
	// Registry receives the pipeline and router metrics and backs /metrics.
	Registry                  *prometheus.Registry
	Middlewares               []MiddlewareRegistration // Appended after the default middleware chain.
	DisableDefaultMiddlewares bool                     // Skips registering the default middleware chain when true.
}

// Service wires the harvest report subscriber, the event pipeline and the
// Kafka producer onto a Watermill router.
type Service struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	definition Definition
	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router
	registry   *prometheus.Registry
	metrics    *Metrics
	pipeline   *Pipeline
	schema     *schemapkg.RegisteredSchema
}

// TryNewService builds a Service and registers the event schema. Every error
// is a setup error and should stop the process.
func TryNewService(conf *configpkg.Config, log loggingpkg.ServiceLogger, def Definition, deps ServiceDependencies) (*Service, error) {
	if conf == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if log == nil {
		return nil, errspkg.ErrLoggerRequired
	}
	if def.Resolver == nil {
		return nil, errspkg.ErrResolverRequired
	}
	if err := errors.Join(def.Event.Validate(), def.Resource.Validate()); err != nil {
		return nil, errspkg.NewConfigValidationError(err)
	}

	wmLogger := loggingpkg.NewWatermillAdapter(log)

	s := &Service{
		Conf:       conf,
		Logger:     log,
		definition: def,
		registry:   deps.Registry,
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.metrics = NewMetrics(s.registry)
	if err := s.metrics.Register(); err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	encoder, err := s.registerSchema(deps.SchemaClients)
	if err != nil {
		return nil, err
	}

	s.subscriber = deps.Subscriber
	if s.subscriber == nil {
		s.subscriber, err = transportpkg.NewHarvestSubscriber(transportpkg.HarvestQueue{
			URL:           conf.RabbitMQURL(),
			Exchange:      conf.RabbitMQExchange,
			Queue:         def.Resource.ConsumerName,
			RoutingKeys:   def.Resource.RoutingKeys,
			PrefetchCount: conf.PrefetchCount,
			RequeueOnNack: conf.RequeueOnPublishFailure,
		}, wmLogger)
		if err != nil {
			return nil, err
		}
	}

	s.publisher = deps.Publisher
	if s.publisher == nil {
		s.publisher, err = transportpkg.NewEventProducer(conf.KafkaBrokers, conf.KafkaTimeout, def.Resource.ConsumerName, wmLogger)
		if err != nil {
			return nil, err
		}
	}

	eventPublisher, err := NewEventPublisher(s.publisher, encoder)
	if err != nil {
		return nil, err
	}

	s.pipeline, err = NewPipeline(def.Resolver, eventPublisher, def.Event, s.metrics, log,
		RequeueOnPublishFailure(conf.RequeueOnPublishFailure))
	if err != nil {
		return nil, err
	}

	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}
	s.router = router
	s.router.AddPlugin(plugin.SignalsHandler)

	if err := s.registerMiddlewares(deps); err != nil {
		return nil, err
	}

	if err := s.registerHandler(handlerRegistration{
		Name:         def.Resource.ConsumerName,
		ConsumeQueue: def.Resource.ConsumerName,
		Handler:      s.pipeline.Handle,
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) registerSchema(clients []schemapkg.Client) (*schemapkg.Encoder, error) {
	if len(clients) == 0 {
		for _, u := range s.Conf.SchemaRegistryURLs {
			clients = append(clients, schemapkg.NewRegistryClient(u, s.Conf.SchemaRegistryTimeout))
		}
	}

	registrar, err := schemapkg.NewRegistrar(s.Logger, clients...)
	if err != nil {
		return nil, err
	}

	registered, err := registrar.Register(s.definition.Event.Name, s.definition.Event.Schema)
	if err != nil {
		return nil, err
	}
	s.schema = registered

	encoder := schemapkg.NewEncoder(registrar, schemaCacheTTL)
	if err := encoder.Prime(registered); err != nil {
		return nil, err
	}
	return encoder, nil
}

// Start runs the router, and the health server when a port is configured,
// until ctx is cancelled or either fails.
func (s *Service) Start(ctx context.Context) error {
	s.Logger.Info("starting service", loggingpkg.LogFields{
		"brokers":         strings.Join(s.Conf.KafkaBrokers, ","),
		"schema_registry": strings.Join(s.Conf.SchemaRegistryURLs, ","),
		"consumer_name":   s.definition.Resource.ConsumerName,
		"output_topic":    s.definition.Event.Topic,
		"routing_keys":    strings.Join(s.definition.Resource.RoutingKeys, ","),
		"schema_id":       s.SchemaID(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if s.Conf.HTTPPort > 0 {
		server := NewHealthServer(s.Conf.HTTPPort, s.HealthHandler(), s.Logger)
		g.Go(func() error {
			return server.Run(gctx)
		})
	}
	g.Go(func() error {
		// A stopped router stops the health server.
		defer cancel()
		return routerRun(s.router, gctx)
	})

	err := g.Wait()
	if closeErr := s.publisher.Close(); closeErr != nil {
		s.Logger.Error("failed to close producer", closeErr, nil)
	}
	return err
}

// Pipeline exposes the message pipeline, mainly for tests and tooling.
func (s *Service) Pipeline() *Pipeline {
	return s.pipeline
}

// Registry is the Prometheus registry behind /metrics.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Ready reports whether the router is consuming.
func (s *Service) Ready() bool {
	return s.router != nil && s.router.IsRunning()
}

// HealthHandler serves /ping, /ready and /metrics for this service.
func (s *Service) HealthHandler() http.Handler {
	return NewHealthRouter(s.registry, s.Ready)
}

// SchemaID is the registry id of the event schema, or 0 before registration.
func (s *Service) SchemaID() int {
	if s.schema == nil {
		return 0
	}
	return s.schema.ID
}
