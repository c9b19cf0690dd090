package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime"
	configpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/config"
	enrichpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/enrich"
	errspkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	loggingpkg "github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/logging"
)

// API selects which enrichment service serves an endpoint.
type API int

const (
	HarvesterAPI API = iota + 1
	ReasoningAPI
)

// Endpoint locates the graph of a resource: {base}/{Path}/{fdkId}?{Query}.
type Endpoint struct {
	API   API
	Path  string
	Query string
}

// Route maps one routing key to an event type. A route without an endpoint
// is recognized but produces no event.
type Route struct {
	EventType runtime.EventType
	Endpoint  *Endpoint
}

// Routes is the routing table of a kind.
type Routes struct {
	// Removed is the event type of every removal, whatever the routing key.
	Removed runtime.EventType
	Keys    map[string]Route
}

// Fetcher retrieves a resource graph. *enrich.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Env carries what a resolver needs at runtime.
type Env struct {
	HarvesterAPIURL string
	ReasoningAPIURL string
	Fetcher         Fetcher
	NotFoundPolicy  configpkg.NotFoundPolicy
	Logger          loggingpkg.ServiceLogger
}

func (e Env) base(api API) (string, error) {
	switch api {
	case HarvesterAPI:
		return e.HarvesterAPIURL, nil
	case ReasoningAPI:
		return e.ReasoningAPIURL, nil
	default:
		return "", fmt.Errorf("unknown api %d", api)
	}
}

type routeResolver struct {
	routes Routes
	env    Env
}

// NewRouteResolver returns a resolver driven by routes.
func NewRouteResolver(routes Routes, env Env) (runtime.Resolver, error) {
	if routes.Removed == "" || len(routes.Keys) == 0 {
		return nil, errors.New("routes require a removal type and at least one routing key")
	}
	if env.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if env.Logger == nil {
		return nil, errspkg.ErrLoggerRequired
	}
	if env.NotFoundPolicy == "" {
		env.NotFoundPolicy = configpkg.NotFoundFail
	}
	for key, route := range routes.Keys {
		if route.Endpoint == nil {
			continue
		}
		if _, err := env.base(route.Endpoint.API); err != nil {
			return nil, fmt.Errorf("route %s: %w", key, err)
		}
	}
	return &routeResolver{routes: routes, env: env}, nil
}

func (r *routeResolver) Resolve(ctx context.Context, routingKey, fdkID string, timestamp int64, change runtime.ChangeKind) (*runtime.Event, error) {
	if change == runtime.Remove {
		return &runtime.Event{Type: r.routes.Removed, FdkID: fdkID, Timestamp: timestamp}, nil
	}

	route, ok := r.routes.Keys[routingKey]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", errspkg.ErrUnknownRoutingKey, routingKey)
	}
	if route.Endpoint == nil {
		return nil, nil
	}

	base, _ := r.env.base(route.Endpoint.API)
	url := enrichpkg.URL(base, route.Endpoint.Path, fdkID, route.Endpoint.Query)
	graph, err := r.env.Fetcher.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, errspkg.ErrNotFound) && r.env.NotFoundPolicy == configpkg.NotFoundSkip {
			r.env.Logger.Info("resource not found, skipping event", loggingpkg.LogFields{
				"fdk_id":      fdkID,
				"routing_key": routingKey,
				"url":         url,
			})
			return nil, nil
		}
		return nil, err
	}

	return &runtime.Event{
		Type:      route.EventType,
		FdkID:     fdkID,
		Graph:     graph,
		Timestamp: timestamp,
	}, nil
}
