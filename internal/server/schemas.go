package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "mem://immocalc/"

// requestSchemas holds the compiled request body schemas by file name.
type requestSchemas map[string]*jsonschema.Schema

// compileSchemas registers every embedded schema so they can reference each other,
// then compiles the request schemas.
func compileSchemas() (requestSchemas, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}
	for _, e := range entries {
		data, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(schemaBaseURL+e.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", e.Name(), err)
		}
	}

	compiled := requestSchemas{}
	for _, name := range []string{"simulation.json", "portfolio.json"} {
		s, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", name, err)
		}
		compiled[name] = s
	}
	return compiled, nil
}

// validate checks body against the named schema before it is decoded into domain types.
func (rs requestSchemas) validate(name string, body []byte) error {
	schema, ok := rs[name]
	if !ok {
		return fmt.Errorf("schema %s not found", name)
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("request body is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("request body does not match schema: %w", err)
	}
	return nil
}
