// Package validator performs structural validation of template packs before
// they are applied. Validation is total and pure: it never mutates the pack,
// always terminates, and collects every problem instead of stopping at the
// first, so a pack author sees all errors in one pass.
package validator

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

// ErrorKind classifies a structural problem found in a pack.
type ErrorKind string

const (
	DanglingCategoryRef     ErrorKind = "DANGLING_CATEGORY_REF"
	DanglingWorkflowRef     ErrorKind = "DANGLING_WORKFLOW_REF"
	DanglingStepRef         ErrorKind = "DANGLING_STEP_REF"
	AmbiguousStepRef        ErrorKind = "AMBIGUOUS_STEP_REF"
	DanglingRoleRef         ErrorKind = "DANGLING_ROLE_REF"
	DanglingTypeRef         ErrorKind = "DANGLING_TYPE_REF"
	NoTerminalStep          ErrorKind = "NO_TERMINAL_STEP"
	NoEntryStep             ErrorKind = "NO_ENTRY_STEP"
	UnreachableTerminalStep ErrorKind = "UNREACHABLE_TERMINAL_STEP"
	DuplicateRefKey         ErrorKind = "DUPLICATE_REF_KEY"
	InvalidModuleKey        ErrorKind = "INVALID_MODULE_KEY"
	InvalidFormSchema       ErrorKind = "INVALID_FORM_SCHEMA"
)

// ValidationError describes one structural problem in a pack.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Entity  string    `json:"entity"`          // Entity kind the problem was found on, e.g. "transition"
	Ref     string    `json:"ref,omitempty"`   // The offending ref_key or reference token
	Scope   string    `json:"scope,omitempty"` // Owning scope, e.g. the workflow template ref_key
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s [%s/%s]: %s", e.Kind, e.Scope, e.Ref, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Ref, e.Message)
}

// formSchemaMetaSchema is the JSON Schema that every step form's
// form_schema_json must satisfy: an object with a "fields" array of
// {key, label, type, options?} entries.
const formSchemaMetaSchema = `{
	"type": "object",
	"required": ["fields"],
	"properties": {
		"fields": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["key", "label", "type"],
				"properties": {
					"key":     {"type": "string", "minLength": 1},
					"label":   {"type": "string", "minLength": 1},
					"type":    {"type": "string", "enum": ["text", "textarea", "number", "date", "select", "checkbox", "file"]},
					"options": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

// Validate checks the pack's referential integrity, workflow graph shape,
// ref_key uniqueness, module keys and form schemas. An empty slice means the
// pack is valid.
func Validate(pack *model.TemplatePack) []ValidationError {
	var errs []ValidationError

	errs = append(errs, checkModuleKeys(pack)...)
	errs = append(errs, checkDuplicateRefKeys(pack)...)

	categoryKeys := make(map[string]bool, len(pack.Categories))
	for _, c := range pack.Categories {
		categoryKeys[c.RefKey] = true
	}
	workflowKeys := make(map[string]bool, len(pack.Workflows))
	for _, w := range pack.Workflows {
		workflowKeys[w.RefKey] = true
	}
	roleKeys := make(map[string]bool, len(pack.Roles))
	for _, r := range pack.Roles {
		roleKeys[r.RefKey] = true
	}
	typeKeys := make(map[string]bool, len(pack.ServiceTypes))
	for _, t := range pack.ServiceTypes {
		typeKeys[t.RefKey] = true
	}
	serviceKeys := make(map[string]bool, len(pack.Services))
	for _, s := range pack.Services {
		serviceKeys[s.RefKey] = true
	}

	// Pack-scoped step lookup: a deadline rule, task template or step form may
	// reference a step in any of the pack's workflow templates. Steps keep
	// every owning template so a ref matching more than one template is
	// reported as ambiguous instead of silently bound by declaration order.
	stepOwners := make(map[string][]string)
	for _, w := range pack.Workflows {
		for _, s := range w.Steps {
			stepOwners[s.RefKey] = append(stepOwners[s.RefKey], w.RefKey)
		}
	}

	checkPackStepRef := func(entity, ref, detail string) {
		owners := stepOwners[ref]
		switch {
		case len(owners) == 0:
			errs = append(errs, ValidationError{
				Kind:    DanglingStepRef,
				Entity:  entity,
				Ref:     ref,
				Message: fmt.Sprintf("%s references unknown step %q", detail, ref),
			})
		case len(owners) > 1:
			errs = append(errs, ValidationError{
				Kind:    AmbiguousStepRef,
				Entity:  entity,
				Ref:     ref,
				Message: fmt.Sprintf("%s references step %q declared in multiple workflows (%s)", detail, ref, strings.Join(owners, ", ")),
			})
		}
	}

	for _, t := range pack.ServiceTypes {
		if !categoryKeys[t.CategoryRef] {
			errs = append(errs, ValidationError{
				Kind:    DanglingCategoryRef,
				Entity:  "service_type",
				Ref:     t.CategoryRef,
				Scope:   t.RefKey,
				Message: fmt.Sprintf("service type %q references unknown category %q", t.RefKey, t.CategoryRef),
			})
		}
		if t.WorkflowRef != nil && !workflowKeys[*t.WorkflowRef] {
			errs = append(errs, ValidationError{
				Kind:    DanglingWorkflowRef,
				Entity:  "service_type",
				Ref:     *t.WorkflowRef,
				Scope:   t.RefKey,
				Message: fmt.Sprintf("service type %q references unknown workflow %q", t.RefKey, *t.WorkflowRef),
			})
		}
	}

	for _, w := range pack.Workflows {
		errs = append(errs, checkWorkflowGraph(&w)...)
	}

	for _, d := range pack.DeadlineRules {
		checkPackStepRef("deadline_rule", d.StepRef, "deadline rule")
	}

	for _, t := range pack.TaskTemplates {
		checkPackStepRef("task_template", t.StepRef, fmt.Sprintf("task template %q", t.Title))
		if t.AssignedRoleRef != nil && !roleKeys[*t.AssignedRoleRef] {
			errs = append(errs, ValidationError{
				Kind:    DanglingRoleRef,
				Entity:  "task_template",
				Ref:     *t.AssignedRoleRef,
				Message: fmt.Sprintf("task template %q references unknown role %q", t.Title, *t.AssignedRoleRef),
			})
		}
	}

	for _, f := range pack.StepForms {
		checkPackStepRef("step_form", f.StepRef, fmt.Sprintf("step form %q", f.Name))
		errs = append(errs, checkFormSchema(&f)...)
	}

	for _, s := range pack.Services {
		if !typeKeys[s.TypeRef] {
			errs = append(errs, ValidationError{
				Kind:    DanglingTypeRef,
				Entity:  "service",
				Ref:     s.TypeRef,
				Scope:   s.RefKey,
				Message: fmt.Sprintf("service %q references unknown service type %q", s.RefKey, s.TypeRef),
			})
		}
		for _, c := range s.Compositions {
			if !serviceKeys[c.ChildRef] {
				errs = append(errs, ValidationError{
					Kind:    DanglingTypeRef,
					Entity:  "service_composition",
					Ref:     c.ChildRef,
					Scope:   s.RefKey,
					Message: fmt.Sprintf("service %q composition references unknown service %q", s.RefKey, c.ChildRef),
				})
			}
		}
	}

	return errs
}

// checkWorkflowGraph validates one workflow template: transition endpoints
// resolve among the template's own steps (never cross-template), step ref_keys
// are unique within the template, at least one terminal step exists, and a
// terminal step is reachable from the entry step (step_order == 1).
//
// Terminal steps may have outgoing transitions: renewal cycles loop a terminal
// step back into an active one and are legal.
func checkWorkflowGraph(w *model.PackWorkflowTemplate) []ValidationError {
	var errs []ValidationError

	stepKeys := make(map[string]bool, len(w.Steps))
	var entryRef string
	hasTerminal := false
	for _, s := range w.Steps {
		if stepKeys[s.RefKey] {
			errs = append(errs, ValidationError{
				Kind:    DuplicateRefKey,
				Entity:  "workflow_step",
				Ref:     s.RefKey,
				Scope:   w.RefKey,
				Message: fmt.Sprintf("workflow %q declares step %q more than once", w.RefKey, s.RefKey),
			})
		}
		stepKeys[s.RefKey] = true
		if s.StepOrder == 1 && entryRef == "" {
			entryRef = s.RefKey
		}
		if s.IsTerminal {
			hasTerminal = true
		}
	}

	if !hasTerminal {
		errs = append(errs, ValidationError{
			Kind:    NoTerminalStep,
			Entity:  "workflow",
			Ref:     w.RefKey,
			Scope:   w.RefKey,
			Message: fmt.Sprintf("workflow %q has no terminal step", w.RefKey),
		})
	}
	if entryRef == "" && len(w.Steps) > 0 {
		errs = append(errs, ValidationError{
			Kind:    NoEntryStep,
			Entity:  "workflow",
			Ref:     w.RefKey,
			Scope:   w.RefKey,
			Message: fmt.Sprintf("workflow %q has no step with step_order 1", w.RefKey),
		})
	}

	adjacency := make(map[string][]string)
	for _, t := range w.Transitions {
		valid := true
		if !stepKeys[t.FromStepRef] {
			valid = false
			errs = append(errs, ValidationError{
				Kind:    DanglingStepRef,
				Entity:  "transition",
				Ref:     t.FromStepRef,
				Scope:   w.RefKey,
				Message: fmt.Sprintf("transition %q references unknown step %q in workflow %q", t.Name, t.FromStepRef, w.RefKey),
			})
		}
		if !stepKeys[t.ToStepRef] {
			valid = false
			errs = append(errs, ValidationError{
				Kind:    DanglingStepRef,
				Entity:  "transition",
				Ref:     t.ToStepRef,
				Scope:   w.RefKey,
				Message: fmt.Sprintf("transition %q references unknown step %q in workflow %q", t.Name, t.ToStepRef, w.RefKey),
			})
		}
		if valid {
			adjacency[t.FromStepRef] = append(adjacency[t.FromStepRef], t.ToStepRef)
		}
	}

	// Reachability only makes sense when the graph is otherwise well-formed.
	if hasTerminal && entryRef != "" && !terminalReachable(w, entryRef, adjacency) {
		errs = append(errs, ValidationError{
			Kind:    UnreachableTerminalStep,
			Entity:  "workflow",
			Ref:     w.RefKey,
			Scope:   w.RefKey,
			Message: fmt.Sprintf("no terminal step of workflow %q is reachable from entry step %q", w.RefKey, entryRef),
		})
	}

	return errs
}

// terminalReachable walks the transition graph from the entry step and
// reports whether any terminal step is visited.
func terminalReachable(w *model.PackWorkflowTemplate, entryRef string, adjacency map[string][]string) bool {
	terminal := make(map[string]bool)
	for _, s := range w.Steps {
		if s.IsTerminal {
			terminal[s.RefKey] = true
		}
	}

	visited := map[string]bool{entryRef: true}
	queue := []string{entryRef}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if terminal[current] {
			return true
		}
		for _, next := range adjacency[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// checkModuleKeys verifies the pack's module list against the closed module
// enumeration.
func checkModuleKeys(pack *model.TemplatePack) []ValidationError {
	var errs []ValidationError
	for _, m := range pack.Modules {
		if !model.IsValidModuleKey(m) {
			errs = append(errs, ValidationError{
				Kind:    InvalidModuleKey,
				Entity:  "pack",
				Ref:     string(m),
				Message: fmt.Sprintf("module %q is not a known module key", m),
			})
		}
	}
	return errs
}

// checkDuplicateRefKeys enforces pack-wide ref_key uniqueness per entity kind.
// Step ref_keys are template-local and checked in checkWorkflowGraph instead.
func checkDuplicateRefKeys(pack *model.TemplatePack) []ValidationError {
	var errs []ValidationError

	check := func(entity string, keys []string) {
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			if seen[k] {
				errs = append(errs, ValidationError{
					Kind:    DuplicateRefKey,
					Entity:  entity,
					Ref:     k,
					Message: fmt.Sprintf("duplicate %s ref_key %q", entity, k),
				})
			}
			seen[k] = true
		}
	}

	categoryKeys := make([]string, 0, len(pack.Categories))
	for _, c := range pack.Categories {
		categoryKeys = append(categoryKeys, c.RefKey)
	}
	check("category", categoryKeys)

	typeKeys := make([]string, 0, len(pack.ServiceTypes))
	for _, t := range pack.ServiceTypes {
		typeKeys = append(typeKeys, t.RefKey)
	}
	check("service_type", typeKeys)

	workflowKeys := make([]string, 0, len(pack.Workflows))
	for _, w := range pack.Workflows {
		workflowKeys = append(workflowKeys, w.RefKey)
	}
	check("workflow", workflowKeys)

	roleKeys := make([]string, 0, len(pack.Roles))
	for _, r := range pack.Roles {
		roleKeys = append(roleKeys, r.RefKey)
	}
	check("role", roleKeys)

	documentKeys := make([]string, 0, len(pack.Documents))
	for _, d := range pack.Documents {
		documentKeys = append(documentKeys, d.RefKey)
	}
	check("document", documentKeys)

	serviceKeys := make([]string, 0, len(pack.Services))
	for _, s := range pack.Services {
		serviceKeys = append(serviceKeys, s.RefKey)
	}
	check("service", serviceKeys)

	return errs
}

// checkFormSchema validates a step form's schema JSON against the field-list
// meta-schema.
func checkFormSchema(f *model.PackStepForm) []ValidationError {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(formSchemaMetaSchema),
		gojsonschema.NewBytesLoader(f.FormSchemaJSON),
	)
	if err != nil {
		return []ValidationError{{
			Kind:    InvalidFormSchema,
			Entity:  "step_form",
			Ref:     f.StepRef,
			Message: fmt.Sprintf("form %q has malformed schema JSON: %v", f.Name, err),
		}}
	}

	var errs []ValidationError
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Kind:    InvalidFormSchema,
			Entity:  "step_form",
			Ref:     f.StepRef,
			Message: fmt.Sprintf("form %q schema: %s", f.Name, desc.String()),
		})
	}
	return errs
}
