// ABOUTME: Capability types for the minimal tool protocol: Resource and Tool.
// ABOUTME: Tools carry a JSON-Schema parameter contract validated before execution.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidParams indicates tool parameters that violate the tool's schema.
var ErrInvalidParams = errors.New("invalid parameters")

// Params holds the arguments for a tool invocation.
type Params map[string]any

// Schema is a JSON-Schema object describing a tool's parameters.
type Schema map[string]any

// Payload is the result of fetching a resource.
type Payload struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"`
}

// FetchFunc produces a resource's data.
type FetchFunc func(ctx context.Context) (any, error)

// ExecFunc runs a tool's logic with already-validated parameters.
type ExecFunc func(ctx context.Context, params Params) (any, error)

// Resource is a named, parameterless capability that produces data.
type Resource struct {
	Name        string
	Description string
	fetch       FetchFunc
}

// NewResource creates a resource backed by the given fetch function.
func NewResource(name, description string, fetch FetchFunc) *Resource {
	return &Resource{
		Name:        name,
		Description: description,
		fetch:       fetch,
	}
}

// Fetch produces the resource's data or fails with the capability's own error.
func (r *Resource) Fetch(ctx context.Context) (any, error) {
	return r.fetch(ctx)
}

// Tool is a named capability with a declared parameter schema.
type Tool struct {
	Name        string
	Description string
	Parameters  Schema

	compiled *gojsonschema.Schema
	exec     ExecFunc
}

// NewTool creates a tool with the given parameter schema and execution
// function. The schema is compiled once; a schema that does not compile is a
// programming error and panics at construction time rather than at first call.
func NewTool(name, description string, parameters Schema, exec ExecFunc) *Tool {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any(parameters)))
	if err != nil {
		panic(fmt.Sprintf("mcp: tool %q has invalid parameter schema: %v", name, err))
	}
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		compiled:    compiled,
		exec:        exec,
	}
}

// Execute validates params against the tool's schema and runs the tool.
// Schema violations fail with ErrInvalidParams before the tool body runs,
// so an invalid call never partially mutates external state.
func (t *Tool) Execute(ctx context.Context, params Params) (any, error) {
	if params == nil {
		params = Params{}
	}
	if err := t.validate(params); err != nil {
		return nil, err
	}
	return t.exec(ctx, params)
}

// validate checks params against the compiled schema.
func (t *Tool) validate(params Params) error {
	result, err := t.compiled.Validate(gojsonschema.NewGoLoader(map[string]any(params)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		issues = append(issues, re.String())
	}
	return fmt.Errorf("%w: tool %q: %s", ErrInvalidParams, t.Name, strings.Join(issues, "; "))
}

// String returns the parameter for key as a string, or fallback when absent.
func (p Params) String(key, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}

// Number returns the parameter for key as a float64, or fallback when absent.
// JSON numbers decode as float64; integer Go values are accepted too.
func (p Params) Number(key string, fallback float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

// Int returns the parameter for key as an int, or fallback when absent.
func (p Params) Int(key string, fallback int) int {
	if _, ok := p[key]; !ok {
		return fallback
	}
	return int(p.Number(key, float64(fallback)))
}
