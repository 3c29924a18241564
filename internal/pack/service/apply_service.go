// Package service applies template packs to tenants: it validates the pack,
// resolves its symbolic references into tenant-scoped records, and persists
// the resolved bundle in a single transaction.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenVertical/vertical/internal/applylog"
	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/internal/pack/registry"
	"github.com/OpenVertical/vertical/internal/pack/resolver"
	"github.com/OpenVertical/vertical/internal/pack/validator"
	"github.com/OpenVertical/vertical/internal/tenant"
)

// ErrPackNotFound is returned when the requested pack key is not registered.
var ErrPackNotFound = errors.New("pack not found")

// ValidationFailedError carries the full list of validation findings for a
// pack that was rejected before resolution.
type ValidationFailedError struct {
	PackKey string
	Errors  []validator.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Error())
	}
	return fmt.Sprintf("pack %q failed validation with %d error(s): %s", e.PackKey, len(e.Errors), strings.Join(msgs, "; "))
}

// ApplyService orchestrates pack application against tenants.
type ApplyService struct {
	db       *gorm.DB
	registry *registry.Registry
	tenants  *tenant.Service
	log      *applylog.Store
	ids      resolver.IDGenerator
}

// NewApplyService creates a new instance of ApplyService with the provided dependencies.
func NewApplyService(db *gorm.DB, reg *registry.Registry, tenants *tenant.Service, log *applylog.Store) *ApplyService {
	return &ApplyService{
		db:       db,
		registry: reg,
		tenants:  tenants,
		log:      log,
		ids:      resolver.UUIDGenerator{},
	}
}

// ValidatePack runs validation for a registered pack without applying it.
func (s *ApplyService) ValidatePack(packKey string) ([]validator.ValidationError, error) {
	pack, ok := s.registry.GetPackByKey(packKey)
	if !ok {
		return nil, ErrPackNotFound
	}
	return validator.Validate(pack), nil
}

// ApplyPack validates and resolves the pack, then persists every resolved
// record for the tenant in one transaction and activates the pack's modules.
// A failed apply leaves the tenant untouched and is recorded in the apply log.
func (s *ApplyService) ApplyPack(ctx context.Context, tenantID string, packKey string) (*model.ApplyResultDTO, error) {
	t, err := s.loadTenant(tenantID)
	if err != nil {
		return nil, err
	}

	pack, ok := s.registry.GetPackByKey(packKey)
	if !ok {
		return nil, ErrPackNotFound
	}

	if verrs := validator.Validate(pack); len(verrs) > 0 {
		err := &ValidationFailedError{PackKey: packKey, Errors: verrs}
		s.recordFailure(t, pack, err)
		return nil, err
	}

	bundle, err := resolver.Apply(pack, resolver.TenantContext{TenantID: t.ID, IDs: s.ids})
	if err != nil {
		s.recordFailure(t, pack, err)
		return nil, fmt.Errorf("failed to resolve pack %q: %w", packKey, err)
	}

	// Begin transaction
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.persistBundleInTx(tx, bundle); err != nil {
		tx.Rollback()
		s.recordFailure(t, pack, err)
		return nil, fmt.Errorf("failed to persist pack %q: %w", packKey, err)
	}

	if err := s.tenants.ActivateModules(tx, t.ID, pack.Modules); err != nil {
		tx.Rollback()
		s.recordFailure(t, pack, err)
		return nil, fmt.Errorf("failed to activate modules for pack %q: %w", packKey, err)
	}

	// Commit transaction
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		s.recordFailure(t, pack, err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	counts := bundle.RecordCounts()
	applyID := s.recordSuccess(t, pack, counts)

	slog.Info("applied template pack",
		"tenant_id", t.ID,
		"pack_key", pack.Metadata.Key,
		"pack_version", pack.Metadata.Version,
		"total_records", bundle.TotalRecords(),
	)

	modules := make([]model.ModuleKey, len(pack.Modules))
	copy(modules, pack.Modules)

	return &model.ApplyResultDTO{
		ApplyID:      applyID,
		TenantID:     t.ID,
		PackKey:      pack.Metadata.Key,
		RecordCounts: counts,
		TotalRecords: bundle.TotalRecords(),
		Modules:      modules,
	}, nil
}

// ListApplications returns the apply-log history for a tenant.
func (s *ApplyService) ListApplications(tenantID string) ([]applylog.ApplyRecord, error) {
	t, err := s.loadTenant(tenantID)
	if err != nil {
		return nil, err
	}
	return s.log.GetByTenant(t.ID)
}

func (s *ApplyService) loadTenant(tenantID string) (*tenant.Tenant, error) {
	tid, err := parseTenantID(tenantID)
	if err != nil {
		return nil, err
	}
	return s.tenants.GetByID(tid)
}

func parseTenantID(s string) (uuid.UUID, error) {
	tid, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tenant ID %q: %w", s, err)
	}
	return tid, nil
}

// persistBundleInTx inserts the bundle table by table in foreign-key
// dependency order, so every referenced row exists before its referrers.
func (s *ApplyService) persistBundleInTx(tx *gorm.DB, bundle *model.ResolvedBundle) error {
	inserts := []struct {
		name string
		rows any
		n    int
	}{
		{"service_categories", bundle.Categories, len(bundle.Categories)},
		{"workflow_templates", bundle.WorkflowTemplates, len(bundle.WorkflowTemplates)},
		{"workflow_steps", bundle.WorkflowSteps, len(bundle.WorkflowSteps)},
		{"service_types", bundle.ServiceTypes, len(bundle.ServiceTypes)},
		{"workflow_transitions", bundle.WorkflowTransitions, len(bundle.WorkflowTransitions)},
		{"deadline_rules", bundle.DeadlineRules, len(bundle.DeadlineRules)},
		{"step_task_templates", bundle.StepTaskTemplates, len(bundle.StepTaskTemplates)},
		{"step_forms", bundle.StepForms, len(bundle.StepForms)},
		{"roles", bundle.Roles, len(bundle.Roles)},
		{"document_templates", bundle.DocumentTemplates, len(bundle.DocumentTemplates)},
		{"services", bundle.Services, len(bundle.Services)},
		{"service_compositions", bundle.ServiceCompositions, len(bundle.ServiceCompositions)},
	}

	for _, ins := range inserts {
		if ins.n == 0 {
			continue
		}
		if err := tx.Create(ins.rows).Error; err != nil {
			return fmt.Errorf("failed to insert %s: %w", ins.name, err)
		}
	}
	return nil
}

func (s *ApplyService) recordSuccess(t *tenant.Tenant, pack *model.TemplatePack, counts map[string]int) uuid.UUID {
	if s.log == nil {
		return uuid.Nil
	}
	countsJSON, _ := json.Marshal(counts)
	rec := &applylog.ApplyRecord{
		TenantID:     t.ID,
		PackKey:      pack.Metadata.Key,
		PackVersion:  pack.Metadata.Version,
		Status:       applylog.StatusApplied,
		RecordCounts: countsJSON,
	}
	if err := s.log.Create(rec); err != nil {
		slog.Warn("failed to record pack application", "pack_key", pack.Metadata.Key, "error", err)
		return uuid.Nil
	}
	return rec.ID
}

func (s *ApplyService) recordFailure(t *tenant.Tenant, pack *model.TemplatePack, cause error) {
	if s.log == nil {
		return
	}
	rec := &applylog.ApplyRecord{
		TenantID:    t.ID,
		PackKey:     pack.Metadata.Key,
		PackVersion: pack.Metadata.Version,
		Status:      applylog.StatusFailed,
		ErrorDetail: cause.Error(),
	}
	if err := s.log.Create(rec); err != nil {
		slog.Warn("failed to record pack application failure", "pack_key", pack.Metadata.Key, "error", err)
	}
}
