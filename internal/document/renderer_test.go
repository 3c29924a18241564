package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/internal/pack/registry"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
}

func TestRenderSubstitutesAllBindingKinds(t *testing.T) {
	tpl := &model.DocumentTemplate{
		Name:        "Ordem de Serviço",
		ContentHTML: `<p>{{empresa}} atende {{cliente}} na OS {{numero_os}} em {{data}} ({{ano}}). Obs: {{observacao}}</p>`,
		Variables: map[string]model.VariableBinding{
			"empresa":    model.SourceBinding(model.BindingSourceTenant, "name", "Empresa"),
			"cliente":    model.SourceBinding(model.BindingSourceCustomer, "name", "Cliente"),
			"numero_os":  model.SourceBinding(model.BindingSourceServiceOrder, "number", "Número da OS"),
			"data":       model.SourceBinding(model.BindingSourceAuto, "date", ""),
			"ano":        model.SourceBinding(model.BindingSourceAuto, "year", ""),
			"observacao": model.LiteralBinding("sem observações"),
		},
	}

	scope := RenderScope{
		Tenant:       map[string]string{"name": "Escritório Modelo"},
		Customer:     map[string]string{"name": "João da Silva"},
		ServiceOrder: map[string]string{"number": "OS-0042"},
		Now:          fixedClock,
	}

	out, err := Render(tpl, scope)
	assert.NoError(t, err)
	assert.Equal(t,
		`<p>Escritório Modelo atende João da Silva na OS OS-0042 em 15/03/2026 (2026). Obs: sem observações</p>`,
		out)
}

func TestRenderAutoDatetime(t *testing.T) {
	tpl := &model.DocumentTemplate{
		ContentHTML: `Gerado em {{quando}}`,
		Variables: map[string]model.VariableBinding{
			"quando": model.SourceBinding(model.BindingSourceAuto, "datetime", ""),
		},
	}

	out, err := Render(tpl, RenderScope{Now: fixedClock})
	assert.NoError(t, err)
	assert.Equal(t, "Gerado em 15/03/2026 14:30", out)
}

func TestRenderReportsAllMissingVariables(t *testing.T) {
	tpl := &model.DocumentTemplate{
		ContentHTML: `{{a}} {{b}} {{c}}`,
		Variables: map[string]model.VariableBinding{
			"a": model.SourceBinding(model.BindingSourceCustomer, "name", ""),
			"b": model.SourceBinding(model.BindingSourceInput, "details", ""),
			"c": model.LiteralBinding("ok"),
		},
	}

	out, err := Render(tpl, RenderScope{Now: fixedClock})
	assert.Empty(t, out)

	var mve *MissingVariablesError
	assert.ErrorAs(t, err, &mve)
	assert.Equal(t, []string{"a", "b"}, mve.Variables)
}

func TestRenderUnknownAutoField(t *testing.T) {
	tpl := &model.DocumentTemplate{
		ContentHTML: `{{x}}`,
		Variables: map[string]model.VariableBinding{
			"x": model.SourceBinding(model.BindingSourceAuto, "moon_phase", ""),
		},
	}

	_, err := Render(tpl, RenderScope{Now: fixedClock})
	var mve *MissingVariablesError
	assert.ErrorAs(t, err, &mve)
	assert.Equal(t, []string{"x"}, mve.Variables)
}

func TestRenderInputSource(t *testing.T) {
	tpl := &model.DocumentTemplate{
		ContentHTML: `Detalhes: {{detalhes}}`,
		Variables: map[string]model.VariableBinding{
			"detalhes": model.SourceBinding(model.BindingSourceInput, "details", "Detalhes"),
		},
	}

	out, err := Render(tpl, RenderScope{
		Input: map[string]string{"details": "entrega expressa"},
		Now:   fixedClock,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Detalhes: entrega expressa", out)
}

func TestRenderInputDefaultsToVariableName(t *testing.T) {
	// Pack authors usually declare input bindings without a Field; the caller
	// then supplies values keyed by the placeholder names themselves.
	tpl := &model.DocumentTemplate{
		ContentHTML: `{{cidade}} | {{observacoes}}`,
		Variables: map[string]model.VariableBinding{
			"cidade":      model.SourceBinding(model.BindingSourceInput, "", "Cidade"),
			"observacoes": model.SourceBinding(model.BindingSourceInput, "", "Observações"),
		},
	}

	out, err := Render(tpl, RenderScope{
		Input: map[string]string{
			"cidade":      "São Paulo",
			"observacoes": "assinar em duas vias",
		},
		Now: fixedClock,
	})
	assert.NoError(t, err)
	assert.Equal(t, "São Paulo | assinar em duas vias", out)
}

func TestRenderShippedPackDocument(t *testing.T) {
	reg := registry.NewRegistry()
	pack, ok := reg.GetPackByKey("juridico")
	assert.True(t, ok)

	var src *model.PackDocumentTemplate
	for i := range pack.Documents {
		if pack.Documents[i].RefKey == "doc_procuracao" {
			src = &pack.Documents[i]
		}
	}
	assert.NotNil(t, src)

	tpl := &model.DocumentTemplate{
		Name:        src.Name,
		ContentHTML: src.ContentHTML,
		Variables:   src.Variables,
	}

	out, err := Render(tpl, RenderScope{
		Tenant:   map[string]string{"name": "Escritório Modelo", "oab": "SP 123.456"},
		Customer: map[string]string{"name": "João da Silva", "document": "123.456.789-00"},
		Input:    map[string]string{"cidade": "Campinas"},
		Now:      fixedClock,
	})
	assert.NoError(t, err)
	assert.Contains(t, out, "Campinas, 15/03/2026.")
	assert.Contains(t, out, "Outorgante: João da Silva")
	assert.Contains(t, out, "OAB SP 123.456")
	assert.NotContains(t, out, "{{")
}

func TestRenderNilTemplate(t *testing.T) {
	_, err := Render(nil, RenderScope{})
	assert.Error(t, err)
}
