package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

type schemaOption func(*jsonschema.Schema)

// inputSchema infers the schema of T and applies opts. It panics on types
// that cannot be described, which is a programming error.
func inputSchema[T any](opts ...schemaOption) *jsonschema.Schema {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		var zero T
		panic(fmt.Sprintf("input schema for %T: %v", zero, err))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func property(s *jsonschema.Schema, name string) *jsonschema.Schema {
	p, ok := s.Properties[name]
	if !ok {
		panic(fmt.Sprintf("schema has no property %q", name))
	}
	return p
}

func withDefault(name string, v any) schemaOption {
	return func(s *jsonschema.Schema) {
		b, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		property(s, name).Default = b
	}
}

func withMinimum(name string, min float64) schemaOption {
	return func(s *jsonschema.Schema) {
		property(s, name).Minimum = &min
	}
}

func withMaximum(name string, max float64) schemaOption {
	return func(s *jsonschema.Schema) {
		property(s, name).Maximum = &max
	}
}

func withEnum(name string, values ...any) schemaOption {
	return func(s *jsonschema.Schema) {
		property(s, name).Enum = values
	}
}
