package model

import (
	"encoding/json"
	"fmt"
)

// BindingSource names where a document variable's value comes from at render time.
type BindingSource string

const (
	BindingSourceTenant       BindingSource = "tenant"
	BindingSourceCustomer     BindingSource = "customer"
	BindingSourceServiceOrder BindingSource = "service_order"
	BindingSourceInput        BindingSource = "input"
	BindingSourceAuto         BindingSource = "auto"
)

// VariableBinding is the binding strategy for one {{placeholder}} in a
// document template. It is a tagged union: either a literal default value, or
// a {source, field, label} descriptor pointing at a render-time data source.
//
// The JSON form mirrors the pack authoring format: a bare string is a
// literal, an object is a descriptor.
type VariableBinding struct {
	Literal *string       `json:"-"`
	Source  BindingSource `json:"source,omitempty"`
	Field   string        `json:"field,omitempty"`
	Label   string        `json:"label,omitempty"`
}

// LiteralBinding builds a literal-valued binding.
func LiteralBinding(value string) VariableBinding {
	return VariableBinding{Literal: &value}
}

// SourceBinding builds a descriptor binding.
func SourceBinding(source BindingSource, field, label string) VariableBinding {
	return VariableBinding{Source: source, Field: field, Label: label}
}

// IsLiteral reports whether the binding carries a literal default value.
func (b VariableBinding) IsLiteral() bool {
	return b.Literal != nil
}

// UnmarshalJSON accepts either a JSON string (literal) or a descriptor object.
func (b *VariableBinding) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		b.Literal = &literal
		b.Source = ""
		b.Field = ""
		b.Label = ""
		return nil
	}

	type descriptor struct {
		Source BindingSource `json:"source"`
		Field  string        `json:"field"`
		Label  string        `json:"label"`
	}
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("variable binding must be a string or a {source, field, label} object: %w", err)
	}
	if d.Source == "" {
		return fmt.Errorf("variable binding descriptor is missing the source field")
	}

	b.Literal = nil
	b.Source = d.Source
	b.Field = d.Field
	b.Label = d.Label
	return nil
}

// MarshalJSON emits the pack authoring format: a bare string for literals, a
// descriptor object otherwise.
func (b VariableBinding) MarshalJSON() ([]byte, error) {
	if b.Literal != nil {
		return json.Marshal(*b.Literal)
	}
	type descriptor struct {
		Source BindingSource `json:"source"`
		Field  string        `json:"field,omitempty"`
		Label  string        `json:"label,omitempty"`
	}
	return json.Marshal(descriptor{Source: b.Source, Field: b.Field, Label: b.Label})
}
