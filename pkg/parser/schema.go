package parser

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/network.schema.json
var networkSchemaJSON string

var (
	networkSchema     *gojsonschema.Schema
	networkSchemaErr  error
	networkSchemaOnce sync.Once
)

// documentSchema compiles the embedded document schema once
func documentSchema() (*gojsonschema.Schema, error) {
	networkSchemaOnce.Do(func() {
		networkSchema, networkSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(networkSchemaJSON))
		if networkSchemaErr != nil {
			networkSchemaErr = fmt.Errorf("failed to compile document schema: %w", networkSchemaErr)
		}
	})
	return networkSchema, networkSchemaErr
}

// checkSchema validates the raw document shape. Each schema violation is
// filed under the category named by the first segment of its field path.
func checkSchema(src []byte) ([]*ValidationError, error) {
	schema, err := documentSchema()
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(src))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	out := make([]*ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		out = append(out, &ValidationError{
			Message:  desc.Description(),
			Severity: SeverityError,
			Category: schemaCategory(field),
			Rule:     "schema:" + desc.Type(),
			Location: field,
		})
	}
	return out, nil
}

func schemaCategory(field string) string {
	head, _, _ := strings.Cut(field, ".")
	if IsCategory(head) {
		return head
	}
	return CategoryNetwork
}
