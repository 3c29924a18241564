package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariableBindingUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		isLiteral bool
		literal   string
		source    BindingSource
		field     string
		expectErr bool
	}{
		{
			name:      "bare string is a literal",
			input:     `"Escritório Silva"`,
			isLiteral: true,
			literal:   "Escritório Silva",
		},
		{
			name:   "descriptor object",
			input:  `{"source":"customer","field":"name","label":"Nome do Cliente"}`,
			source: BindingSourceCustomer,
			field:  "name",
		},
		{
			name:   "auto descriptor",
			input:  `{"source":"auto","field":"date"}`,
			source: BindingSourceAuto,
			field:  "date",
		},
		{
			name:      "descriptor without source",
			input:     `{"field":"name"}`,
			expectErr: true,
		},
		{
			name:      "invalid JSON",
			input:     `42`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b VariableBinding
			err := json.Unmarshal([]byte(tt.input), &b)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.isLiteral, b.IsLiteral())
			if tt.isLiteral {
				assert.Equal(t, tt.literal, *b.Literal)
			} else {
				assert.Equal(t, tt.source, b.Source)
				assert.Equal(t, tt.field, b.Field)
			}
		})
	}
}

func TestVariableBindingMarshalRoundTrip(t *testing.T) {
	literal := LiteralBinding("ACME")
	data, err := json.Marshal(literal)
	assert.NoError(t, err)
	assert.JSONEq(t, `"ACME"`, string(data))

	descriptor := SourceBinding(BindingSourceServiceOrder, "number", "Número da OS")
	data, err = json.Marshal(descriptor)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"source":"service_order","field":"number","label":"Número da OS"}`, string(data))

	var back VariableBinding
	assert.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, descriptor, back)
}

func TestVariableBindingMapSerialization(t *testing.T) {
	variables := map[string]VariableBinding{
		"empresa": LiteralBinding("Escritório Modelo"),
		"cliente": SourceBinding(BindingSourceCustomer, "name", "Cliente"),
		"data":    SourceBinding(BindingSourceAuto, "date", ""),
	}

	data, err := json.Marshal(variables)
	assert.NoError(t, err)

	var back map[string]VariableBinding
	assert.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, variables, back)
}
