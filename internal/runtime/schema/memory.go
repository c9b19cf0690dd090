package schema

import (
	"fmt"
	"slices"
	"sync"

	"github.com/linkedin/goavro/v2"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/jsoncodec"
)

// MemoryClient is an in-process registry. It keeps every version per subject
// and rejects new versions that cannot read data written with the previous
// one.
type MemoryClient struct {
	mu       sync.Mutex
	nextID   int
	subjects map[string][]*RegisteredSchema
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{nextID: 1, subjects: make(map[string][]*RegisteredSchema)}
}

func (m *MemoryClient) Register(subject, schema string) (*RegisteredSchema, error) {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", subject, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.subjects[subject]
	for _, v := range versions {
		if canonical(v.Schema) == codec.CanonicalSchema() {
			return v, nil
		}
	}
	if n := len(versions); n > 0 {
		if err := checkBackward(versions[n-1].Schema, schema); err != nil {
			return nil, fmt.Errorf("subject %s: incompatible schema: %w", subject, err)
		}
	}

	registered := &RegisteredSchema{
		ID:      m.nextID,
		Subject: subject,
		Schema:  schema,
		Version: len(versions) + 1,
	}
	m.nextID++
	m.subjects[subject] = append(versions, registered)
	return registered, nil
}

func (m *MemoryClient) Latest(subject string) (*RegisteredSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.subjects[subject]
	if len(versions) == 0 {
		return nil, fmt.Errorf("subject %s not found", subject)
	}
	return versions[len(versions)-1], nil
}

func canonical(schema string) string {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return schema
	}
	return codec.CanonicalSchema()
}

type recordSchema struct {
	Name   string        `json:"name"`
	Fields []recordField `json:"fields"`
}

type recordField struct {
	Name    string `json:"name"`
	Type    any    `json:"type"`
	Default any    `json:"default"`
}

// checkBackward applies the registry's BACKWARD rule to flat event records:
// added fields need a default and enum symbols cannot be dropped.
func checkBackward(previous, next string) error {
	var prev, curr recordSchema
	if err := jsoncodec.Unmarshal([]byte(previous), &prev); err != nil {
		return err
	}
	if err := jsoncodec.Unmarshal([]byte(next), &curr); err != nil {
		return err
	}

	old := make(map[string]recordField, len(prev.Fields))
	for _, f := range prev.Fields {
		old[f.Name] = f
	}
	for _, f := range curr.Fields {
		before, existed := old[f.Name]
		if !existed {
			if f.Default == nil {
				return fmt.Errorf("field %q added without default", f.Name)
			}
			continue
		}
		for _, symbol := range enumSymbols(before.Type) {
			if !slices.Contains(enumSymbols(f.Type), symbol) {
				return fmt.Errorf("field %q dropped enum symbol %s", f.Name, symbol)
			}
		}
	}
	return nil
}

func enumSymbols(t any) []string {
	m, ok := t.(map[string]any)
	if !ok || m["type"] != "enum" {
		return nil
	}
	raw, _ := m["symbols"].([]any)
	symbols := make([]string, 0, len(raw))
	for _, s := range raw {
		if str, ok := s.(string); ok {
			symbols = append(symbols, str)
		}
	}
	return symbols
}
