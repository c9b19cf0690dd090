package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"

	configpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/config"
	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	schemapkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/schema"
	transportpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/transport"
)

func testDefinition() Definition {
	return Definition{
		Event: testEventConfig,
		Resource: ResourceConfig{
			ConsumerName: "fdk-dataset-event-publisher",
			RoutingKeys:  []string{"datasets.harvested"},
		},
		Resolver: ResolverFunc(func(_ context.Context, _ string, fdkID string, ts int64, _ ChangeKind) (*Event, error) {
			return &Event{Type: "DATASET_HARVESTED", FdkID: fdkID, Timestamp: ts}, nil
		}),
	}
}

func testDependencies() (ServiceDependencies, *testPublisher) {
	pub := &testPublisher{}
	return ServiceDependencies{
		Subscriber:    &testSubscriber{},
		Publisher:     pub,
		SchemaClients: []schemapkg.Client{schemapkg.NewMemoryClient()},
		Registry:      prometheus.NewRegistry(),
	}, pub
}

func TestTryNewServiceWiresPipeline(t *testing.T) {
	deps, pub := testDependencies()
	logger := newTestLogger()

	svc, err := TryNewService(&configpkg.Config{}, logger, testDefinition(), deps)
	if err != nil {
		t.Fatalf("TryNewService: %v", err)
	}
	if svc.SchemaID() == 0 {
		t.Fatal("expected schema to be registered")
	}
	if svc.Registry() != deps.Registry {
		t.Fatal("expected injected registry")
	}
	if svc.Ready() {
		t.Fatal("service must not be ready before the router runs")
	}
	if _, ok := logger.find("schema successfully registered"); !ok {
		t.Error("expected registration log")
	}

	if err := svc.Pipeline().Handle(harvestMessage("datasets.harvested", harvestedReport)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	published := pub.Published()
	if len(published) != 1 || published[0].topic != "dataset-events" {
		t.Fatalf("unexpected publications %#v", published)
	}
	if published[0].msg.Payload[0] != 0 {
		t.Errorf("expected wire format magic byte, got % x", published[0].msg.Payload[:5])
	}
}

func TestTryNewServiceSubscriberNackPolicy(t *testing.T) {
	origConn := transportpkg.AmqpConnectionFactory
	origSub := transportpkg.AmqpSubscriberFactory
	t.Cleanup(func() {
		transportpkg.AmqpConnectionFactory = origConn
		transportpkg.AmqpSubscriberFactory = origSub
	})

	transportpkg.AmqpConnectionFactory = func(amqp.ConnectionConfig, watermill.LoggerAdapter) (*amqp.ConnectionWrapper, error) {
		return &amqp.ConnectionWrapper{}, nil
	}
	var gotConfig amqp.Config
	transportpkg.AmqpSubscriberFactory = func(cfg amqp.Config, _ watermill.LoggerAdapter, _ *amqp.ConnectionWrapper) (message.Subscriber, error) {
		gotConfig = cfg
		return &testSubscriber{}, nil
	}

	for _, requeue := range []bool{false, true} {
		deps, _ := testDependencies()
		deps.Subscriber = nil

		conf := &configpkg.Config{RabbitMQExchange: "harvests", RequeueOnPublishFailure: requeue}
		if _, err := TryNewService(conf, newTestLogger(), testDefinition(), deps); err != nil {
			t.Fatalf("TryNewService(requeue=%v): %v", requeue, err)
		}
		if gotConfig.Consume.NoRequeueOnNack == requeue {
			t.Errorf("requeue=%v: NoRequeueOnNack = %v", requeue, gotConfig.Consume.NoRequeueOnNack)
		}
	}
}

func TestTryNewServiceValidation(t *testing.T) {
	deps, _ := testDependencies()
	logger := newTestLogger()

	if _, err := TryNewService(nil, logger, testDefinition(), deps); !errors.Is(err, errspkg.ErrConfigRequired) {
		t.Errorf("nil config: %v", err)
	}
	if _, err := TryNewService(&configpkg.Config{}, nil, testDefinition(), deps); !errors.Is(err, errspkg.ErrLoggerRequired) {
		t.Errorf("nil logger: %v", err)
	}

	def := testDefinition()
	def.Resolver = nil
	if _, err := TryNewService(&configpkg.Config{}, logger, def, deps); !errors.Is(err, errspkg.ErrResolverRequired) {
		t.Errorf("nil resolver: %v", err)
	}

	def = testDefinition()
	def.Resource.RoutingKeys = nil
	_, err := TryNewService(&configpkg.Config{}, logger, def, deps)
	var cfgErr errspkg.ConfigValidationError
	if !errors.As(err, &cfgErr) || !errors.Is(err, errspkg.ErrRoutingKeysRequired) {
		t.Errorf("missing routing keys: %v", err)
	}
}

func TestTryNewServiceRejectsSchema(t *testing.T) {
	deps, _ := testDependencies()
	def := testDefinition()
	def.Event.Schema = `{"type": "record", "name": "Broken"`

	_, err := TryNewService(&configpkg.Config{}, newTestLogger(), def, deps)
	if !errors.Is(err, errspkg.ErrSchemaRejected) {
		t.Fatalf("expected ErrSchemaRejected, got %v", err)
	}
}

func TestServiceStartRunsRouter(t *testing.T) {
	deps, _ := testDependencies()
	logger := newTestLogger()
	svc, err := TryNewService(&configpkg.Config{KafkaBrokers: []string{"k1:9092"}}, logger, testDefinition(), deps)
	if err != nil {
		t.Fatalf("TryNewService: %v", err)
	}

	ran := false
	original := routerRun
	routerRun = func(_ *message.Router, ctx context.Context) error {
		ran = true
		return nil
	}
	t.Cleanup(func() { routerRun = original })

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !ran {
		t.Fatal("expected router to run")
	}

	entry, ok := logger.find("starting service")
	if !ok {
		t.Fatal("expected startup log")
	}
	for key, want := range map[string]string{
		"brokers":       "k1:9092",
		"consumer_name": "fdk-dataset-event-publisher",
		"output_topic":  "dataset-events",
		"routing_keys":  "datasets.harvested",
	} {
		if entry.fields[key] != want {
			t.Errorf("%s = %v, want %s", key, entry.fields[key], want)
		}
	}
}

func TestServiceStartPropagatesRouterError(t *testing.T) {
	deps, _ := testDependencies()
	svc, err := TryNewService(&configpkg.Config{}, newTestLogger(), testDefinition(), deps)
	if err != nil {
		t.Fatalf("TryNewService: %v", err)
	}

	wantErr := errors.New("router failed")
	original := routerRun
	routerRun = func(*message.Router, context.Context) error { return wantErr }
	t.Cleanup(func() { routerRun = original })

	if err := svc.Start(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Start() = %v, want %v", err, wantErr)
	}
}
