// Package validate provides schema and semantic validation for pipeline definitions.
package validate

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/conveyorci/conveyor/schemas"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(schemas.PipelineV1Schema)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	return compiledSchema, compileErr
}

// ValidateDefinition validates raw conveyor.yaml bytes against the pipeline
// v1 schema. It returns a slice of validation error descriptions and an
// error if the document cannot be parsed or the schema fails to compile.
func ValidateDefinition(yamlData []byte) ([]string, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling pipeline schema: %w", err)
	}

	// gojsonschema works on JSON documents; round-trip the YAML through JSON.
	var doc any
	if err := yaml.Unmarshal(yamlData, &doc); err != nil {
		return nil, fmt.Errorf("parsing pipeline definition: %w", err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding pipeline definition: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("validating pipeline definition: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
