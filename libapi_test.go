package eventpublisher

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources/kinds"
)

func validConfig() *Config {
	return &Config{
		RabbitMQUsername:      "admin",
		RabbitMQPassword:      "admin",
		RabbitMQHost:          "127.0.0.1",
		RabbitMQPort:          5672,
		RabbitMQExchange:      "harvests",
		PrefetchCount:         1,
		KafkaBrokers:          []string{"localhost:9092"},
		KafkaTimeout:          5 * time.Second,
		SchemaRegistryURLs:    []string{"http://localhost:8081"},
		SchemaRegistryTimeout: 5 * time.Second,
		HarvesterAPIURL:       "http://localhost:8081",
		ReasoningAPIURL:       "http://localhost:8082",
		HTTPTimeout:           5 * time.Second,
		NotFoundPolicy:        NotFoundFail,
	}
}

func TestNewServiceBuildsKind(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "fdk-concept-event-publisher")
	conf := validConfig()

	svc, err := NewService("concept", conf, logger, ServiceDependencies{
		Subscriber:    &stubSubscriber{},
		Publisher:     &stubPublisher{},
		SchemaClients: []SchemaClient{NewMemorySchemaClient()},
		Registry:      prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if svc.SchemaID() == 0 {
		t.Error("expected registered schema id")
	}
	if conf.ConsumerName != "fdk-concept-event-publisher" || conf.OutputTopic != "concept-events" {
		t.Errorf("kind defaults not applied: %q %q", conf.ConsumerName, conf.OutputTopic)
	}
	if !strings.Contains(buf.String(), "schema successfully registered") {
		t.Errorf("expected registration log, got %q", buf.String())
	}
}

func TestNewServiceErrors(t *testing.T) {
	logger := NewSlogServiceLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	if _, err := NewService("concept", nil, logger, ServiceDependencies{}); !errors.Is(err, ErrConfigRequired) {
		t.Errorf("nil config: %v", err)
	}
	if _, err := NewService("concept", validConfig(), nil, ServiceDependencies{}); !errors.Is(err, ErrLoggerRequired) {
		t.Errorf("nil logger: %v", err)
	}

	bad := validConfig()
	bad.KafkaBrokers = nil
	var cfgErr ConfigValidationError
	if _, err := NewService("concept", bad, logger, ServiceDependencies{}); !errors.As(err, &cfgErr) {
		t.Errorf("invalid config: %v", err)
	}

	if _, err := NewService("spaceship", validConfig(), logger, ServiceDependencies{}); err == nil || !strings.Contains(err.Error(), "unknown resource kind") {
		t.Errorf("unknown kind: %v", err)
	}
}

func TestKindExports(t *testing.T) {
	names := KindNames()
	if len(names) != 6 {
		t.Fatalf("expected six kinds, got %v", names)
	}
	k, err := LookupKind("dataset")
	if err != nil {
		t.Fatalf("LookupKind: %v", err)
	}
	if k.OutputTopic != "dataset-events" {
		t.Errorf("OutputTopic = %q", k.OutputTopic)
	}
}

func TestReportExports(t *testing.T) {
	reports, err := DecodeReports([]byte(`[{"startTime":"2023-06-01 12:00:00.000 +0000","changedResources":[{"fdkId":"a"}]}]`))
	if err != nil {
		t.Fatalf("DecodeReports: %v", err)
	}
	if reports[0].Timestamp != 1685620800000 {
		t.Errorf("Timestamp = %d", reports[0].Timestamp)
	}
	if _, err := ParseTimestamp("nope"); !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("ParseTimestamp: %v", err)
	}
	if ErrorKind(ErrPublish) != "publish" {
		t.Errorf("ErrorKind = %q", ErrorKind(ErrPublish))
	}
}
