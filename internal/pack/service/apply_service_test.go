package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/OpenVertical/vertical/internal/applylog"
	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/internal/pack/registry"
	"github.com/OpenVertical/vertical/internal/tenant"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&tenant.Tenant{},
		&model.ServiceCategory{},
		&model.WorkflowTemplate{},
		&model.WorkflowStep{},
		&model.WorkflowTransition{},
		&model.ServiceType{},
		&model.DeadlineRule{},
		&model.StepTaskTemplate{},
		&model.StepForm{},
		&model.DocumentTemplate{},
		&model.Role{},
		&model.Service{},
		&model.ServiceComposition{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestApplyService(t *testing.T) (*ApplyService, *tenant.Service, *applylog.Store, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	tenants := tenant.NewService(db)
	log, err := applylog.NewInMemoryStore()
	if err != nil {
		t.Fatalf("failed to open in-memory apply log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	svc := NewApplyService(db, registry.NewRegistry(), tenants, log)
	return svc, tenants, log, db
}

func TestApplyPackPersistsResolvedRecords(t *testing.T) {
	svc, tenants, log, db := newTestApplyService(t)

	tn, err := tenants.Create(tenant.CreateTenantRequest{Name: "Escritório Teste", Specialty: "juridico"})
	assert.NoError(t, err)

	result, err := svc.ApplyPack(context.Background(), tn.ID.String(), "juridico")
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "juridico", result.PackKey)
	assert.Equal(t, tn.ID, result.TenantID)
	assert.Greater(t, result.TotalRecords, 0)

	var categoryCount int64
	assert.NoError(t, db.Model(&model.ServiceCategory{}).Where("tenant_id = ?", tn.ID).Count(&categoryCount).Error)
	assert.Equal(t, int64(result.RecordCounts["service_categories"]), categoryCount)

	var stepCount int64
	assert.NoError(t, db.Model(&model.WorkflowStep{}).Where("tenant_id = ?", tn.ID).Count(&stepCount).Error)
	assert.Equal(t, int64(result.RecordCounts["workflow_steps"]), stepCount)

	// Modules were activated on the tenant.
	reloaded, err := tenants.GetByID(tn.ID)
	assert.NoError(t, err)
	assert.True(t, reloaded.HasModule(model.ModuleDocuments))
	assert.True(t, reloaded.HasModule(model.ModuleCRM))

	// The application was recorded in the apply log.
	records, err := log.GetByTenant(tn.ID)
	assert.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.Equal(t, applylog.StatusApplied, records[0].Status)
		assert.Equal(t, "juridico", records[0].PackKey)
	}
}

func TestApplyPackTransitionsReferencePersistedSteps(t *testing.T) {
	svc, tenants, _, db := newTestApplyService(t)

	tn, err := tenants.Create(tenant.CreateTenantRequest{Name: "Loja Teste", Specialty: "comercio"})
	assert.NoError(t, err)

	_, err = svc.ApplyPack(context.Background(), tn.ID.String(), "comercio")
	assert.NoError(t, err)

	stepIDs := make(map[uuid.UUID]bool)
	var steps []model.WorkflowStep
	assert.NoError(t, db.Where("tenant_id = ?", tn.ID).Find(&steps).Error)
	for _, s := range steps {
		stepIDs[s.ID] = true
	}

	var transitions []model.WorkflowTransition
	assert.NoError(t, db.Where("tenant_id = ?", tn.ID).Find(&transitions).Error)
	assert.NotEmpty(t, transitions)
	for _, tr := range transitions {
		assert.True(t, stepIDs[tr.FromStepID])
		assert.True(t, stepIDs[tr.ToStepID])
	}
}

func TestApplyPackTwiceCreatesIndependentRecords(t *testing.T) {
	svc, tenants, _, db := newTestApplyService(t)

	tn, err := tenants.Create(tenant.CreateTenantRequest{Name: "Duplo", Specialty: "padrao"})
	assert.NoError(t, err)

	first, err := svc.ApplyPack(context.Background(), tn.ID.String(), "padrao")
	assert.NoError(t, err)
	second, err := svc.ApplyPack(context.Background(), tn.ID.String(), "padrao")
	assert.NoError(t, err)
	assert.Equal(t, first.RecordCounts, second.RecordCounts)

	// Re-applying mints fresh identifiers, so row counts double.
	var categoryCount int64
	assert.NoError(t, db.Model(&model.ServiceCategory{}).Where("tenant_id = ?", tn.ID).Count(&categoryCount).Error)
	assert.Equal(t, int64(2*first.RecordCounts["service_categories"]), categoryCount)
}

func TestApplyPackErrors(t *testing.T) {
	svc, tenants, _, _ := newTestApplyService(t)

	tn, err := tenants.Create(tenant.CreateTenantRequest{Name: "Erros"})
	assert.NoError(t, err)

	_, err = svc.ApplyPack(context.Background(), tn.ID.String(), "inexistente")
	assert.ErrorIs(t, err, ErrPackNotFound)

	_, err = svc.ApplyPack(context.Background(), uuid.NewString(), "padrao")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	_, err = svc.ApplyPack(context.Background(), "not-a-uuid", "padrao")
	assert.Error(t, err)
}

func TestValidatePack(t *testing.T) {
	svc, _, _, _ := newTestApplyService(t)

	verrs, err := svc.ValidatePack("juridico")
	assert.NoError(t, err)
	assert.Empty(t, verrs)

	_, err = svc.ValidatePack("inexistente")
	assert.ErrorIs(t, err, ErrPackNotFound)
}

func TestListApplications(t *testing.T) {
	svc, tenants, _, _ := newTestApplyService(t)

	tn, err := tenants.Create(tenant.CreateTenantRequest{Name: "Histórico"})
	assert.NoError(t, err)

	records, err := svc.ListApplications(tn.ID.String())
	assert.NoError(t, err)
	assert.Empty(t, records)

	_, err = svc.ApplyPack(context.Background(), tn.ID.String(), "padrao")
	assert.NoError(t, err)

	records, err = svc.ListApplications(tn.ID.String())
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}
