// Package schema registers event schemas with a Confluent-compatible schema
// registry and encodes events in the registry wire format.
package schema

import (
	"time"

	"github.com/riferrei/srclient"
)

// RegisteredSchema is a schema as stored by the registry.
type RegisteredSchema struct {
	ID      int
	Subject string
	Schema  string
	Version int
}

// Client is the part of a schema registry the publisher needs.
type Client interface {
	// Register stores schema under subject. Registering an identical schema
	// again returns the existing entry.
	Register(subject, schema string) (*RegisteredSchema, error)
	// Latest returns the newest version registered under subject.
	Latest(subject string) (*RegisteredSchema, error)
}

type registryClient struct {
	url   string
	inner *srclient.SchemaRegistryClient
}

// NewRegistryClient returns a Client talking to the registry at url.
func NewRegistryClient(url string, timeout time.Duration) Client {
	inner := srclient.CreateSchemaRegistryClient(url)
	inner.SetTimeout(timeout)
	return &registryClient{url: url, inner: inner}
}

func (c *registryClient) Register(subject, schema string) (*RegisteredSchema, error) {
	s, err := c.inner.CreateSchema(subject, schema, srclient.Avro)
	if err != nil {
		return nil, err
	}
	return fromSRClient(subject, s), nil
}

func (c *registryClient) Latest(subject string) (*RegisteredSchema, error) {
	s, err := c.inner.GetLatestSchema(subject)
	if err != nil {
		return nil, err
	}
	return fromSRClient(subject, s), nil
}

func (c *registryClient) String() string {
	return c.url
}

func fromSRClient(subject string, s *srclient.Schema) *RegisteredSchema {
	return &RegisteredSchema{
		ID:      s.ID(),
		Subject: subject,
		Schema:  s.Schema(),
		Version: s.Version(),
	}
}
