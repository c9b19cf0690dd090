package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	configpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/config"
	loggingpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/logging"
)

const testSchema = `{
  "type": "record",
  "name": "DatasetEvent",
  "namespace": "no.fdk.dataset",
  "fields": [
    {"name": "type", "type": {"type": "enum", "name": "DatasetEventType", "symbols": ["DATASET_HARVESTED", "DATASET_REASONED", "DATASET_REMOVED"]}},
    {"name": "fdkId", "type": "string"},
    {"name": "graph", "type": "string"},
    {"name": "timestamp", "type": "long", "logicalType": "timestamp-millis"}
  ]
}`

var testEventConfig = EventConfig{
	Name:   "no.fdk.dataset.DatasetEvent",
	Topic:  "dataset-events",
	Schema: testSchema,
}

type testPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

type publishedMessage struct {
	topic string
	msg   *message.Message
}

func (p *testPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for _, m := range messages {
		p.messages = append(p.messages, publishedMessage{topic: topic, msg: m})
	}
	return nil
}

func (p *testPublisher) Close() error { return nil }

func (p *testPublisher) Published() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	clone := make([]publishedMessage, len(p.messages))
	copy(clone, p.messages)
	return clone
}

type testSubscriber struct {
	err error
}

func (s *testSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (s *testSubscriber) Close() error { return nil }

type logEntry struct {
	level  string
	msg    string
	fields loggingpkg.LogFields
	err    error
}

type testLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	fields  loggingpkg.LogFields
}

func newTestLogger() *testLogger {
	return &testLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *testLogger) record(level, msg string, err error, fields loggingpkg.LogFields) {
	merged := loggingpkg.LogFields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, fields: merged, err: err})
}

func (l *testLogger) With(fields loggingpkg.LogFields) loggingpkg.ServiceLogger {
	return &testLogger{mu: l.mu, entries: l.entries, fields: fields}
}

func (l *testLogger) Debug(msg string, fields loggingpkg.LogFields) {
	l.record("debug", msg, nil, fields)
}

func (l *testLogger) Info(msg string, fields loggingpkg.LogFields) {
	l.record("info", msg, nil, fields)
}

func (l *testLogger) Error(msg string, err error, fields loggingpkg.LogFields) {
	l.record("error", msg, err, fields)
}

func (l *testLogger) Trace(msg string, fields loggingpkg.LogFields) {
	l.record("trace", msg, nil, fields)
}

// find returns the last entry logged with msg.
func (l *testLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(*l.entries) - 1; i >= 0; i-- {
		if (*l.entries)[i].msg == msg {
			return (*l.entries)[i], true
		}
	}
	return logEntry{}, false
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := newTestLogger()
	wmLogger := loggingpkg.NewWatermillAdapter(log)
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		t.Fatalf("router init failed: %v", err)
	}
	return &Service{
		Conf:       &configpkg.Config{},
		Logger:     log,
		router:     router,
		publisher:  &testPublisher{},
		subscriber: &testSubscriber{},
	}
}

// epochMillis reads an Avro timestamp-millis value, which goavro decodes as
// time.Time.
func epochMillis(v any) (int64, bool) {
	switch ts := v.(type) {
	case time.Time:
		return ts.UnixMilli(), true
	case int64:
		return ts, true
	default:
		return 0, false
	}
}
