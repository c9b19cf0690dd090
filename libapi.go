package eventpublisher

import (
	"io"
	"log/slog"

	runtimepkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	configpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/config"
	enrichpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/enrich"
	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	loggingpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/logging"
	reportpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/report"
	schemapkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/schema"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/resources"
)

type (
	Config              = configpkg.Config
	NotFoundPolicy      = configpkg.NotFoundPolicy
	Service             = runtimepkg.Service
	ServiceDependencies = runtimepkg.ServiceDependencies
	Definition          = runtimepkg.Definition

	EventConfig    = runtimepkg.EventConfig
	ResourceConfig = runtimepkg.ResourceConfig
	Event          = runtimepkg.Event
	EventType      = runtimepkg.EventType
	ChangeKind     = runtimepkg.ChangeKind
	Resolver       = runtimepkg.Resolver
	ResolverFunc   = runtimepkg.ResolverFunc

	MiddlewareBuilder      = runtimepkg.MiddlewareBuilder
	MiddlewareRegistration = runtimepkg.MiddlewareRegistration

	HarvestReport = reportpkg.HarvestReport
	ResourceRef   = reportpkg.ResourceRef

	SchemaClient     = schemapkg.Client
	RegisteredSchema = schemapkg.RegisteredSchema

	Kind = resources.Kind

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	ConfigValidationError = errspkg.ConfigValidationError
)

const (
	CreateOrUpdate = runtimepkg.CreateOrUpdate
	Remove         = runtimepkg.Remove

	NotFoundFail = configpkg.NotFoundFail
	NotFoundSkip = configpkg.NotFoundSkip
)

var (
	LoadConfig     = configpkg.Load
	ValidateConfig = configpkg.ValidateConfig
	TryNewService  = runtimepkg.TryNewService

	DefaultMiddlewares      = runtimepkg.DefaultMiddlewares
	CorrelationIDMiddleware = runtimepkg.CorrelationIDMiddleware
	LogMessagesMiddleware   = runtimepkg.LogMessagesMiddleware
	TracerMiddleware        = runtimepkg.TracerMiddleware
	MetricsMiddleware       = runtimepkg.MetricsMiddleware
	RecovererMiddleware     = runtimepkg.RecovererMiddleware

	DecodeReports  = reportpkg.Decode
	ParseTimestamp = reportpkg.ParseTimestamp

	NewMemorySchemaClient   = schemapkg.NewMemoryClient
	NewRegistrySchemaClient = schemapkg.NewRegistryClient

	LookupKind = resources.Lookup
	KindNames  = resources.Names

	ErrConfigRequired    = errspkg.ErrConfigRequired
	ErrLoggerRequired    = errspkg.ErrLoggerRequired
	ErrResolverRequired  = errspkg.ErrResolverRequired
	ErrUnknownRoutingKey = errspkg.ErrUnknownRoutingKey
	ErrEnrichment        = errspkg.ErrEnrichment
	ErrNotFound          = errspkg.ErrNotFound
	ErrMalformedPayload  = errspkg.ErrMalformedPayload
	ErrInvalidTimestamp  = errspkg.ErrInvalidTimestamp
	ErrEncoding          = errspkg.ErrEncoding
	ErrPublish           = errspkg.ErrPublish
	ErrSchemaRejected    = errspkg.ErrSchemaRejected

	ErrorKind = errspkg.Kind
)

// NewLogger returns the JSON process logger wrapped as a ServiceLogger.
func NewLogger(w io.Writer, level slog.Level, serviceName string) ServiceLogger {
	return loggingpkg.NewSlogServiceLogger(loggingpkg.NewJSONLogger(w, level, serviceName))
}

// NewSlogServiceLogger wraps an existing slog.Logger.
func NewSlogServiceLogger(log *slog.Logger) ServiceLogger {
	return loggingpkg.NewSlogServiceLogger(log)
}

// NewService builds the publisher for the named resource kind. The kind must
// be registered; import resources/kinds to register the built-in ones.
// conf is validated first and its CONSUMER_NAME and OUTPUT_TOPIC defaults
// are filled from the kind.
func NewService(kindName string, conf *Config, log ServiceLogger, deps ServiceDependencies) (*Service, error) {
	if conf == nil {
		return nil, ErrConfigRequired
	}
	if log == nil {
		return nil, ErrLoggerRequired
	}
	if err := conf.Validate(); err != nil {
		return nil, errspkg.NewConfigValidationError(err)
	}

	kind, err := resources.Lookup(kindName)
	if err != nil {
		return nil, err
	}

	def, err := kind.Definition(conf, resources.Env{
		HarvesterAPIURL: conf.HarvesterAPIURL,
		ReasoningAPIURL: conf.ReasoningAPIURL,
		Fetcher:         enrichpkg.NewFetcher(conf.HTTPTimeout, nil),
		NotFoundPolicy:  conf.NotFoundPolicy,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	return runtimepkg.TryNewService(conf, log.With(LogFields{"resource_kind": kind.Name}), def, deps)
}
