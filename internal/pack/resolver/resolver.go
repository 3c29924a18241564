// Package resolver translates a template pack's symbolic ref_key references
// into concrete, tenant-scoped generated identifiers, producing a
// ResolvedBundle of insertable records.
//
// Resolution is pure: it performs no I/O and its only effect is identifier
// generation through the provided capability. Every Apply call builds its own
// translation tables, so concurrent resolutions never share state, and the
// input pack is only read, never mutated.
package resolver

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenVertical/vertical/internal/pack/model"
)

// IDGenerator is the identifier-generation capability used during resolution.
type IDGenerator interface {
	NewID() uuid.UUID
}

// UUIDGenerator is the production IDGenerator backed by random UUIDs.
type UUIDGenerator struct{}

// NewID returns a fresh random UUID.
func (UUIDGenerator) NewID() uuid.UUID {
	return uuid.New()
}

// TenantContext identifies the tenant a pack is being applied to and supplies
// the identifier generator for the resolution.
type TenantContext struct {
	TenantID uuid.UUID
	IDs      IDGenerator
}

// UnresolvedReferenceError reports a reference that could not be translated.
// It aborts the whole Apply call: a half-translated bundle is unsafe to
// persist, so no partial output is ever produced.
type UnresolvedReferenceError struct {
	EntityKind string // Entity kind carrying the reference, e.g. "transition"
	Ref        string // The unresolved ref_key token
	Scope      string // Owning scope, e.g. the workflow template ref_key
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("unresolved %s reference %q in %q", e.EntityKind, e.Ref, e.Scope)
	}
	return fmt.Sprintf("unresolved %s reference %q", e.EntityKind, e.Ref)
}

// AmbiguousReferenceError reports a pack-scoped step reference that matches
// steps in more than one workflow template. Binding it by declaration order
// would be arbitrary, so the Apply call aborts instead.
type AmbiguousReferenceError struct {
	EntityKind string
	Ref        string
	Templates  []string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("ambiguous %s reference %q matches steps in workflows %s", e.EntityKind, e.Ref, strings.Join(e.Templates, ", "))
}

// stepKey scopes a step ref_key to its owning workflow template. Step
// ref_keys are only unique within a template, so two templates may both
// declare "s01" and must not collide in the translation table.
type stepKey struct {
	Template string
	Step     string
}

// translations holds the per-apply ref_key to generated-ID tables, one per
// entity kind. A fresh instance is built for every Apply call.
type translations struct {
	categories map[string]uuid.UUID
	workflows  map[string]uuid.UUID
	steps      map[stepKey]uuid.UUID
	types      map[string]uuid.UUID
	roles      map[string]uuid.UUID
	services   map[string]uuid.UUID

	// stepOwners maps a pack-scoped step ref_key to every template declaring
	// it, for deadline rules, task templates and step forms. More than one
	// owner makes the ref ambiguous.
	stepOwners map[string][]string
}

// Apply resolves the pack against the given tenant context. It either returns
// a complete ResolvedBundle where every foreign-key-shaped field carries a
// generated identifier, or fails atomically with an
// *UnresolvedReferenceError and no bundle at all.
func Apply(pack *model.TemplatePack, tc TenantContext) (*model.ResolvedBundle, error) {
	if pack == nil {
		return nil, fmt.Errorf("pack cannot be nil")
	}
	if tc.TenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant ID cannot be nil")
	}
	gen := tc.IDs
	if gen == nil {
		gen = UUIDGenerator{}
	}

	// First pass: mint an identifier for every keyed entity so that forward
	// references (e.g. a service type pointing at a workflow declared later)
	// resolve without ordering constraints on the pack author.
	t := mintIdentifiers(pack, gen)

	bundle := &model.ResolvedBundle{
		TenantID: tc.TenantID,
		PackKey:  pack.Metadata.Key,
	}

	// Second pass: materialize records in foreign-key dependency order,
	// rewriting every symbolic reference through the translation tables.
	for _, c := range pack.Categories {
		bundle.Categories = append(bundle.Categories, model.ServiceCategory{
			BaseModel: model.BaseModel{ID: t.categories[c.RefKey]},
			TenantID:  tc.TenantID,
			Name:      c.Name,
			Color:     c.Color,
			Icon:      c.Icon,
			SortOrder: c.SortOrder,
			Active:    c.Active,
		})
	}

	for _, w := range pack.Workflows {
		bundle.WorkflowTemplates = append(bundle.WorkflowTemplates, model.WorkflowTemplate{
			BaseModel:   model.BaseModel{ID: t.workflows[w.RefKey]},
			TenantID:    tc.TenantID,
			Name:        w.Name,
			Description: w.Description,
		})
		for _, s := range w.Steps {
			bundle.WorkflowSteps = append(bundle.WorkflowSteps, model.WorkflowStep{
				BaseModel:          model.BaseModel{ID: t.steps[stepKey{w.RefKey, s.RefKey}]},
				TenantID:           tc.TenantID,
				WorkflowTemplateID: t.workflows[w.RefKey],
				Name:               s.Name,
				StepOrder:          s.StepOrder,
				IsTerminal:         s.IsTerminal,
				OCREnabled:         s.OCREnabled,
				HasProtocol:        s.HasProtocol,
			})
		}
	}

	for _, st := range pack.ServiceTypes {
		categoryID, ok := t.categories[st.CategoryRef]
		if !ok {
			return nil, &UnresolvedReferenceError{EntityKind: "service_type.category_ref", Ref: st.CategoryRef, Scope: st.RefKey}
		}
		var workflowID *uuid.UUID
		if st.WorkflowRef != nil {
			id, ok := t.workflows[*st.WorkflowRef]
			if !ok {
				return nil, &UnresolvedReferenceError{EntityKind: "service_type.workflow_ref", Ref: *st.WorkflowRef, Scope: st.RefKey}
			}
			workflowID = &id
		}
		bundle.ServiceTypes = append(bundle.ServiceTypes, model.ServiceType{
			BaseModel:          model.BaseModel{ID: t.types[st.RefKey]},
			TenantID:           tc.TenantID,
			CategoryID:         categoryID,
			WorkflowTemplateID: workflowID,
			Name:               st.Name,
			Description:        st.Description,
			Icon:               st.Icon,
			Color:              st.Color,
			EntityTable:        st.EntityTable,
		})
	}

	for _, w := range pack.Workflows {
		for _, tr := range w.Transitions {
			fromID, ok := t.steps[stepKey{w.RefKey, tr.FromStepRef}]
			if !ok {
				return nil, &UnresolvedReferenceError{EntityKind: "transition.from_step_ref", Ref: tr.FromStepRef, Scope: w.RefKey}
			}
			toID, ok := t.steps[stepKey{w.RefKey, tr.ToStepRef}]
			if !ok {
				return nil, &UnresolvedReferenceError{EntityKind: "transition.to_step_ref", Ref: tr.ToStepRef, Scope: w.RefKey}
			}
			bundle.WorkflowTransitions = append(bundle.WorkflowTransitions, model.WorkflowTransition{
				BaseModel:          model.BaseModel{ID: gen.NewID()},
				TenantID:           tc.TenantID,
				WorkflowTemplateID: t.workflows[w.RefKey],
				FromStepID:         fromID,
				ToStepID:           toID,
				Name:               tr.Name,
				Description:        tr.Description,
				ConditionJSON:      tr.ConditionJSON,
			})
		}
	}

	for _, d := range pack.DeadlineRules {
		stepID, err := t.resolvePackStep("deadline_rule.step_ref", d.StepRef)
		if err != nil {
			return nil, err
		}
		bundle.DeadlineRules = append(bundle.DeadlineRules, model.DeadlineRule{
			BaseModel:        model.BaseModel{ID: gen.NewID()},
			TenantID:         tc.TenantID,
			StepID:           stepID,
			DaysToComplete:   d.DaysToComplete,
			Priority:         d.Priority,
			NotifyBeforeDays: d.NotifyBeforeDays,
		})
	}

	for _, tt := range pack.TaskTemplates {
		stepID, err := t.resolvePackStep("task_template.step_ref", tt.StepRef)
		if err != nil {
			return nil, err
		}
		var roleID *uuid.UUID
		if tt.AssignedRoleRef != nil {
			id, ok := t.roles[*tt.AssignedRoleRef]
			if !ok {
				return nil, &UnresolvedReferenceError{EntityKind: "task_template.assigned_role_ref", Ref: *tt.AssignedRoleRef}
			}
			roleID = &id
		}
		bundle.StepTaskTemplates = append(bundle.StepTaskTemplates, model.StepTaskTemplate{
			BaseModel:      model.BaseModel{ID: gen.NewID()},
			TenantID:       tc.TenantID,
			StepID:         stepID,
			Title:          tt.Title,
			IsRequired:     tt.IsRequired,
			Priority:       tt.Priority,
			TemplateOrder:  tt.TemplateOrder,
			AssignedRoleID: roleID,
			DueDays:        tt.DueDays,
		})
	}

	for _, f := range pack.StepForms {
		stepID, err := t.resolvePackStep("step_form.step_ref", f.StepRef)
		if err != nil {
			return nil, err
		}
		bundle.StepForms = append(bundle.StepForms, model.StepForm{
			BaseModel:          model.BaseModel{ID: gen.NewID()},
			TenantID:           tc.TenantID,
			StepID:             stepID,
			Name:               f.Name,
			FormSchemaJSON:     f.FormSchemaJSON,
			IsRequired:         f.IsRequired,
			CanBlockTransition: f.CanBlockTransition,
		})
	}

	for _, r := range pack.Roles {
		permissions := make([]string, len(r.Permissions))
		copy(permissions, r.Permissions)
		bundle.Roles = append(bundle.Roles, model.Role{
			BaseModel:   model.BaseModel{ID: t.roles[r.RefKey]},
			TenantID:    tc.TenantID,
			Name:        r.Name,
			Permissions: permissions,
		})
	}

	for _, d := range pack.Documents {
		variables := make(map[string]model.VariableBinding, len(d.Variables))
		for name, binding := range d.Variables {
			variables[name] = binding
		}
		bundle.DocumentTemplates = append(bundle.DocumentTemplates, model.DocumentTemplate{
			BaseModel:   model.BaseModel{ID: gen.NewID()},
			TenantID:    tc.TenantID,
			Name:        d.Name,
			Category:    d.Category,
			ContentHTML: d.ContentHTML,
			Variables:   variables,
		})
	}

	for _, s := range pack.Services {
		typeID, ok := t.types[s.TypeRef]
		if !ok {
			return nil, &UnresolvedReferenceError{EntityKind: "service.type_ref", Ref: s.TypeRef, Scope: s.RefKey}
		}
		bundle.Services = append(bundle.Services, model.Service{
			BaseModel:     model.BaseModel{ID: t.services[s.RefKey]},
			TenantID:      tc.TenantID,
			ServiceTypeID: typeID,
			Name:          s.Name,
			ItemKind:      s.ItemKind,
			SellPrice:     s.SellPrice,
			CostPrice:     s.CostPrice,
			TrackStock:    s.TrackStock,
			IsComposition: s.IsComposition,
		})
	}

	// Compositions run as a second pass over services so a composite may
	// reference a sibling declared before or after it in the pack.
	for _, s := range pack.Services {
		for _, c := range s.Compositions {
			childID, ok := t.services[c.ChildRef]
			if !ok {
				return nil, &UnresolvedReferenceError{EntityKind: "service_composition.child_ref", Ref: c.ChildRef, Scope: s.RefKey}
			}
			bundle.ServiceCompositions = append(bundle.ServiceCompositions, model.ServiceComposition{
				BaseModel:      model.BaseModel{ID: gen.NewID()},
				TenantID:       tc.TenantID,
				ServiceID:      t.services[s.RefKey],
				ChildServiceID: childID,
				Quantity:       c.Quantity,
			})
		}
	}

	return bundle, nil
}

// mintIdentifiers builds the per-apply translation tables, generating one
// identifier per keyed entity. Steps are keyed by (template, step) so that
// identical step ref_keys in different templates stay distinct.
func mintIdentifiers(pack *model.TemplatePack, gen IDGenerator) *translations {
	t := &translations{
		categories: make(map[string]uuid.UUID, len(pack.Categories)),
		workflows:  make(map[string]uuid.UUID, len(pack.Workflows)),
		steps:      make(map[stepKey]uuid.UUID),
		types:      make(map[string]uuid.UUID, len(pack.ServiceTypes)),
		roles:      make(map[string]uuid.UUID, len(pack.Roles)),
		services:   make(map[string]uuid.UUID, len(pack.Services)),
		stepOwners: make(map[string][]string),
	}

	for _, c := range pack.Categories {
		t.categories[c.RefKey] = gen.NewID()
	}
	for _, w := range pack.Workflows {
		t.workflows[w.RefKey] = gen.NewID()
		for _, s := range w.Steps {
			t.steps[stepKey{w.RefKey, s.RefKey}] = gen.NewID()
			t.stepOwners[s.RefKey] = append(t.stepOwners[s.RefKey], w.RefKey)
		}
	}
	for _, st := range pack.ServiceTypes {
		t.types[st.RefKey] = gen.NewID()
	}
	for _, r := range pack.Roles {
		t.roles[r.RefKey] = gen.NewID()
	}
	for _, s := range pack.Services {
		t.services[s.RefKey] = gen.NewID()
	}

	return t
}

// resolvePackStep resolves a pack-scoped step reference (used by deadline
// rules, task templates and step forms) to its generated identifier. A ref
// declared by more than one template cannot be bound deterministically and
// fails the whole resolution.
func (t *translations) resolvePackStep(entityKind, ref string) (uuid.UUID, error) {
	owners := t.stepOwners[ref]
	switch {
	case len(owners) == 0:
		return uuid.Nil, &UnresolvedReferenceError{EntityKind: entityKind, Ref: ref}
	case len(owners) > 1:
		return uuid.Nil, &AmbiguousReferenceError{EntityKind: entityKind, Ref: ref, Templates: owners}
	}
	return t.steps[stepKey{owners[0], ref}], nil
}
