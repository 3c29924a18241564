package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/internal/pack/registry"
)

func strPtr(s string) *string { return &s }

// minimalPack builds a structurally valid pack with one category, one
// two-step workflow and one service type, used as the base for mutation
// in the failure cases.
func minimalPack() *model.TemplatePack {
	return &model.TemplatePack{
		Metadata: model.PackMetadata{Key: "test", Name: "Test", Version: "1.0.0"},
		Modules:  []model.ModuleKey{model.ModuleCore},
		Categories: []model.PackServiceCategory{
			{RefKey: "cat_a", Name: "A", Active: true},
		},
		Workflows: []model.PackWorkflowTemplate{
			{
				RefKey: "wf_a",
				Name:   "Workflow A",
				Steps: []model.PackWorkflowStep{
					{RefKey: "s01", Name: "Start", StepOrder: 1},
					{RefKey: "s02", Name: "Done", StepOrder: 2, IsTerminal: true},
				},
				Transitions: []model.PackWorkflowTransition{
					{Name: "Finish", FromStepRef: "s01", ToStepRef: "s02"},
				},
			},
		},
		ServiceTypes: []model.PackServiceType{
			{RefKey: "tp_a", Name: "Type A", CategoryRef: "cat_a", WorkflowRef: strPtr("wf_a")},
		},
	}
}

func TestValidateShippedPacks(t *testing.T) {
	reg := registry.NewRegistry()
	for _, key := range reg.GetPackKeys() {
		pack, ok := reg.GetPackByKey(key)
		assert.True(t, ok)
		errs := Validate(pack)
		assert.Empty(t, errs, "shipped pack %s must validate cleanly, got: %v", key, errs)
	}
}

func TestValidateMinimalPack(t *testing.T) {
	assert.Empty(t, Validate(minimalPack()))
}

func TestValidateDanglingTransitionStep(t *testing.T) {
	pack := minimalPack()
	pack.Workflows = append(pack.Workflows, model.PackWorkflowTemplate{
		RefKey: "wf_processo_judicial",
		Name:   "Processo Judicial",
		Steps: []model.PackWorkflowStep{
			{RefKey: "pj_s01", Name: "Triagem", StepOrder: 1},
			{RefKey: "pj_s02", Name: "Arquivado", StepOrder: 2, IsTerminal: true},
		},
		Transitions: []model.PackWorkflowTransition{
			{Name: "Arquivar", FromStepRef: "pj_s01", ToStepRef: "pj_s02"},
			{Name: "Quebrada", FromStepRef: "pj_s01", ToStepRef: "pj_s99"},
		},
	})

	errs := Validate(pack)
	assert.Len(t, errs, 1)
	assert.Equal(t, DanglingStepRef, errs[0].Kind)
	assert.Equal(t, "transition", errs[0].Entity)
	assert.Equal(t, "pj_s99", errs[0].Ref)
	assert.Equal(t, "wf_processo_judicial", errs[0].Scope)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	pack := minimalPack()
	// Break the category ref and the workflow ref of the same service type:
	// both findings must be reported, not just the first.
	pack.ServiceTypes[0].CategoryRef = "cat_missing"
	pack.ServiceTypes[0].WorkflowRef = strPtr("wf_missing")

	errs := Validate(pack)
	assert.Len(t, errs, 2)

	kinds := make(map[ErrorKind]bool)
	for _, e := range errs {
		kinds[e.Kind] = true
	}
	assert.True(t, kinds[DanglingCategoryRef])
	assert.True(t, kinds[DanglingWorkflowRef])
}

func TestValidateWorkflowShape(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *model.TemplatePack)
		expected ErrorKind
	}{
		{
			name: "no terminal step",
			mutate: func(p *model.TemplatePack) {
				p.Workflows[0].Steps[1].IsTerminal = false
			},
			expected: NoTerminalStep,
		},
		{
			name: "no entry step",
			mutate: func(p *model.TemplatePack) {
				p.Workflows[0].Steps[0].StepOrder = 5
			},
			expected: NoEntryStep,
		},
		{
			name: "terminal unreachable from entry",
			mutate: func(p *model.TemplatePack) {
				p.Workflows[0].Transitions = nil
			},
			expected: UnreachableTerminalStep,
		},
		{
			name: "duplicate step ref within template",
			mutate: func(p *model.TemplatePack) {
				p.Workflows[0].Steps = append(p.Workflows[0].Steps,
					model.PackWorkflowStep{RefKey: "s01", Name: "Again", StepOrder: 3})
			},
			expected: DuplicateRefKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack := minimalPack()
			tt.mutate(pack)
			errs := Validate(pack)
			assert.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if e.Kind == tt.expected {
					found = true
				}
			}
			assert.True(t, found, "expected a %s finding, got %v", tt.expected, errs)
		})
	}
}

func TestValidateTerminalStepMayHaveOutgoingTransitions(t *testing.T) {
	// Renewal cycles loop a terminal step back into an active one.
	pack := minimalPack()
	pack.Workflows[0].Transitions = append(pack.Workflows[0].Transitions,
		model.PackWorkflowTransition{Name: "Renovar", FromStepRef: "s02", ToStepRef: "s01"})

	assert.Empty(t, Validate(pack))
}

func TestValidateSameStepKeyInDifferentTemplates(t *testing.T) {
	// Step ref_keys are template-local; two templates may both declare "s01".
	pack := minimalPack()
	pack.Workflows = append(pack.Workflows, model.PackWorkflowTemplate{
		RefKey: "wf_b",
		Name:   "Workflow B",
		Steps: []model.PackWorkflowStep{
			{RefKey: "s01", Name: "Start B", StepOrder: 1},
			{RefKey: "s02", Name: "Done B", StepOrder: 2, IsTerminal: true},
		},
		Transitions: []model.PackWorkflowTransition{
			{Name: "Finish B", FromStepRef: "s01", ToStepRef: "s02"},
		},
	})

	assert.Empty(t, Validate(pack))
}

func TestValidateAmbiguousPackScopedStepRef(t *testing.T) {
	// Both templates declare "s01"; a deadline rule naming it cannot be bound
	// to one template, so the pack must be rejected, not resolved by
	// declaration order.
	pack := minimalPack()
	pack.Workflows = append(pack.Workflows, model.PackWorkflowTemplate{
		RefKey: "wf_b",
		Name:   "Workflow B",
		Steps: []model.PackWorkflowStep{
			{RefKey: "s01", Name: "Start B", StepOrder: 1},
			{RefKey: "s03", Name: "Done B", StepOrder: 2, IsTerminal: true},
		},
		Transitions: []model.PackWorkflowTransition{
			{Name: "Finish B", FromStepRef: "s01", ToStepRef: "s03"},
		},
	})
	pack.DeadlineRules = []model.PackDeadlineRule{
		{StepRef: "s01", DaysToComplete: 3, Priority: model.PriorityHigh},
		{StepRef: "s03", DaysToComplete: 2, Priority: model.PriorityMedium},
	}

	errs := Validate(pack)
	assert.Len(t, errs, 1)
	assert.Equal(t, AmbiguousStepRef, errs[0].Kind)
	assert.Equal(t, "deadline_rule", errs[0].Entity)
	assert.Equal(t, "s01", errs[0].Ref)
}

func TestValidateInvalidModuleKey(t *testing.T) {
	pack := minimalPack()
	pack.Modules = append(pack.Modules, model.ModuleKey("telepathy"))

	errs := Validate(pack)
	assert.Len(t, errs, 1)
	assert.Equal(t, InvalidModuleKey, errs[0].Kind)
	assert.Equal(t, "telepathy", errs[0].Ref)
}

func TestValidateDuplicateRefKeys(t *testing.T) {
	pack := minimalPack()
	pack.Categories = append(pack.Categories,
		model.PackServiceCategory{RefKey: "cat_a", Name: "A again", Active: true})

	errs := Validate(pack)
	assert.Len(t, errs, 1)
	assert.Equal(t, DuplicateRefKey, errs[0].Kind)
	assert.Equal(t, "category", errs[0].Entity)
	assert.Equal(t, "cat_a", errs[0].Ref)
}

func TestValidateDanglingPackScopedRefs(t *testing.T) {
	pack := minimalPack()
	pack.Roles = []model.PackRole{{RefKey: "rl_a", Name: "Atendente"}}
	pack.DeadlineRules = []model.PackDeadlineRule{
		{StepRef: "s99", DaysToComplete: 3, Priority: model.PriorityHigh},
	}
	pack.TaskTemplates = []model.PackStepTaskTemplate{
		{StepRef: "s01", Title: "Conferir documentos", AssignedRoleRef: strPtr("rl_missing")},
	}
	pack.StepForms = []model.PackStepForm{
		{StepRef: "s98", Name: "Form", FormSchemaJSON: json.RawMessage(`{"fields":[]}`)},
	}

	errs := Validate(pack)
	assert.Len(t, errs, 3)

	byEntity := make(map[string]ValidationError)
	for _, e := range errs {
		byEntity[e.Entity] = e
	}
	assert.Equal(t, DanglingStepRef, byEntity["deadline_rule"].Kind)
	assert.Equal(t, "s99", byEntity["deadline_rule"].Ref)
	assert.Equal(t, DanglingRoleRef, byEntity["task_template"].Kind)
	assert.Equal(t, DanglingStepRef, byEntity["step_form"].Kind)
	assert.Equal(t, "s98", byEntity["step_form"].Ref)
}

func TestValidateFormSchema(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		wantErr bool
	}{
		{
			name:    "valid schema",
			schema:  `{"fields":[{"key":"nome","label":"Nome","type":"text"}]}`,
			wantErr: false,
		},
		{
			name:    "select with options",
			schema:  `{"fields":[{"key":"tipo","label":"Tipo","type":"select","options":["A","B"]}]}`,
			wantErr: false,
		},
		{
			name:    "missing fields array",
			schema:  `{"title":"no fields"}`,
			wantErr: true,
		},
		{
			name:    "unknown field type",
			schema:  `{"fields":[{"key":"x","label":"X","type":"hologram"}]}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			schema:  `{"fields":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack := minimalPack()
			pack.StepForms = []model.PackStepForm{
				{StepRef: "s01", Name: "Form", FormSchemaJSON: json.RawMessage(tt.schema)},
			}
			errs := Validate(pack)
			if tt.wantErr {
				assert.NotEmpty(t, errs)
				assert.Equal(t, InvalidFormSchema, errs[0].Kind)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}
