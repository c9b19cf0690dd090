package errors

import (
	sterrors "errors"
	"fmt"
)

// Setup errors. Any of these during startup is fatal.
var (
	ErrConfigRequired       = sterrors.New("eventpublisher: configuration is required")
	ErrLoggerRequired       = sterrors.New("eventpublisher: logger is required")
	ErrResolverRequired     = sterrors.New("eventpublisher: resolver is required")
	ErrPublisherRequired    = sterrors.New("eventpublisher: publisher is required")
	ErrSubscriberRequired   = sterrors.New("eventpublisher: subscriber is required")
	ErrTopicRequired        = sterrors.New("eventpublisher: topic is required")
	ErrSchemaNameRequired   = sterrors.New("eventpublisher: schema name is required")
	ErrRoutingKeysRequired  = sterrors.New("eventpublisher: at least one routing key is required")
	ErrConsumerNameRequired = sterrors.New("eventpublisher: consumer name is required")
	ErrEventRequired        = sterrors.New("eventpublisher: event is required")
)

// Pipeline errors. Each processed message fails with at most one of these.
var (
	ErrUnknownRoutingKey = sterrors.New("unknown routing key")
	ErrEnrichment        = sterrors.New("enrichment failed")
	ErrNotFound          = sterrors.New("resource not found")
	ErrMalformedPayload  = sterrors.New("malformed payload")
	ErrInvalidTimestamp  = sterrors.New("invalid timestamp")
	ErrEncoding          = sterrors.New("encoding failed")
	ErrPublish           = sterrors.New("publish failed")
	ErrSchemaRejected    = sterrors.New("schema rejected")
	ErrPanic             = sterrors.New("handler panicked")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrUnknownRoutingKey, "unknown_routing_key"},
	{ErrEnrichment, "enrichment"},
	{ErrMalformedPayload, "malformed_payload"},
	{ErrInvalidTimestamp, "invalid_timestamp"},
	{ErrEncoding, "encoding"},
	{ErrPublish, "publish"},
	{ErrSchemaRejected, "schema_rejected"},
	{ErrPanic, "panic"},
}

// Kind returns a short label for the taxonomy error wrapped by err.
// It returns "none" for nil and "other" for errors outside the taxonomy.
func Kind(err error) string {
	if err == nil {
		return "none"
	}
	for _, k := range kinds {
		if sterrors.Is(err, k.err) {
			return k.name
		}
	}
	return "other"
}

// ConfigValidationError wraps configuration problems found by Validate.
type ConfigValidationError struct {
	Err error
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("eventpublisher: invalid configuration: %v", e.Err)
}

func (e ConfigValidationError) Unwrap() error {
	return e.Err
}

// NewConfigValidationError returns nil when err is nil.
func NewConfigValidationError(err error) error {
	if err == nil {
		return nil
	}
	return ConfigValidationError{Err: err}
}
