package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	SchemaRotation = "rotation.schema.json"
	SchemaReport   = "report.schema.json"
)

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	names := []string{SchemaRotation, SchemaReport}
	for _, name := range names {
		raw, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			schemasErr = err
			return
		}
		if err := c.AddResource(schemaURL(name), bytes.NewReader(raw)); err != nil {
			schemasErr = fmt.Errorf("%s: %w", name, err)
			return
		}
	}
	schemas = map[string]*jsonschema.Schema{}
	for _, name := range names {
		s, err := c.Compile(schemaURL(name))
		if err != nil {
			schemasErr = fmt.Errorf("%s: %w", name, err)
			return
		}
		schemas[name] = s
	}
}

func schemaURL(name string) string { return "https://craftsim.ai/schemas/" + name }

// Schema returns one of the embedded schemas by file name.
func Schema(name string) (*jsonschema.Schema, error) {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return nil, schemasErr
	}
	s, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return s, nil
}

// ValidateJSON checks raw JSON against the named schema. Violations come
// back as E_BAD_REQUEST.
func ValidateJSON(name string, raw []byte) error {
	s, err := Schema(name)
	if err != nil {
		return Wrap(ErrInternal, err, "schema")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Wrap(ErrBadRequest, err, "malformed json")
	}
	if err := s.Validate(v); err != nil {
		return Wrap(ErrBadRequest, err, name)
	}
	return nil
}

// DecodeRotation validates raw against the rotation schema and decodes it.
func DecodeRotation(raw []byte) (RotationRequest, error) {
	var req RotationRequest
	if err := ValidateJSON(SchemaRotation, raw); err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, Wrap(ErrBadRequest, err, "rotation")
	}
	return req, nil
}
