package schema

import (
	stderrors "errors"
	"fmt"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/logging"
)

// Registrar fans registry calls out over one or more registries, moving on
// to the next when a call fails. It implements Client.
type Registrar struct {
	clients []Client
	logger  logging.ServiceLogger
}

// NewRegistrar returns a Registrar trying clients in order.
func NewRegistrar(logger logging.ServiceLogger, clients ...Client) (*Registrar, error) {
	if logger == nil {
		return nil, errors.ErrLoggerRequired
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: no schema registry configured", errors.ErrSchemaRejected)
	}
	return &Registrar{clients: clients, logger: logger}, nil
}

// Register stores the schema under subject, using the record-name strategy:
// the subject is the fully-qualified record name. Failures wrap
// ErrSchemaRejected.
func (r *Registrar) Register(subject, schema string) (*RegisteredSchema, error) {
	r.logger.Info("registering schema", logging.LogFields{"schema_name": subject})

	registered, err := r.try("register", subject, func(c Client) (*RegisteredSchema, error) {
		return c.Register(subject, schema)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrSchemaRejected, subject, err)
	}

	r.logger.Info("schema successfully registered", logging.LogFields{
		"schema_name": subject,
		"schema_id":   registered.ID,
		"version":     registered.Version,
	})
	return registered, nil
}

func (r *Registrar) Latest(subject string) (*RegisteredSchema, error) {
	return r.try("latest", subject, func(c Client) (*RegisteredSchema, error) {
		return c.Latest(subject)
	})
}

func (r *Registrar) try(op, subject string, call func(Client) (*RegisteredSchema, error)) (*RegisteredSchema, error) {
	var errs []error
	for i, c := range r.clients {
		s, err := call(c)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
		if i < len(r.clients)-1 {
			r.logger.Error("schema registry call failed, trying next registry", err, logging.LogFields{
				"operation":   op,
				"schema_name": subject,
				"registry":    registryName(c),
			})
		}
	}
	return nil, stderrors.Join(errs...)
}

func registryName(c Client) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}
