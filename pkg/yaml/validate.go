package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates decoded YAML against a JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var doc any
	if err := json.Unmarshal(schemaData, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data against the schema. Failures are returned as an
// [*Error] whose Path points at the most specific failing location.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return NewError(verr, WithPath(pathFromLocation(deepestLocation(verr))))
}

func deepestLocation(err *jsonschema.ValidationError) []string {
	loc := err.InstanceLocation
	for _, cause := range err.Causes {
		if c := deepestLocation(cause); len(c) > len(loc) {
			loc = c
		}
	}

	return loc
}

func pathFromLocation(location []string) *yaml.Path {
	pb := NewPathBuilder().Root()
	for _, part := range location {
		if idx, err := strconv.ParseUint(part, 10, 64); err == nil {
			pb = pb.Index(uint(idx))
			continue
		}

		pb = pb.Child(part)
	}

	return pb.Build()
}
