package applylog

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStoreCreateAndGet(t *testing.T) {
	store, err := NewInMemoryStore()
	assert.NoError(t, err)
	defer store.Close()

	tenantID := uuid.New()
	rec := &ApplyRecord{
		TenantID:     tenantID,
		PackKey:      "juridico",
		PackVersion:  "1.2.0",
		Status:       StatusApplied,
		RecordCounts: json.RawMessage(`{"roles":3}`),
	}
	assert.NoError(t, store.Create(rec))
	assert.NotEqual(t, uuid.Nil, rec.ID, "Create must assign an ID")

	got, err := store.GetByID(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, "juridico", got.PackKey)
	assert.Equal(t, StatusApplied, got.Status)

	byTenant, err := store.GetByTenant(tenantID)
	assert.NoError(t, err)
	assert.Len(t, byTenant, 1)

	other, err := store.GetByTenant(uuid.New())
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestStoreRecordsFailures(t *testing.T) {
	store, err := NewInMemoryStore()
	assert.NoError(t, err)
	defer store.Close()

	tenantID := uuid.New()
	assert.NoError(t, store.Create(&ApplyRecord{
		TenantID:    tenantID,
		PackKey:     "padrao",
		PackVersion: "1.0.0",
		Status:      StatusFailed,
		ErrorDetail: "unresolved reference",
	}))

	records, err := store.GetByTenant(tenantID)
	assert.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.Equal(t, StatusFailed, records[0].Status)
		assert.Equal(t, "unresolved reference", records[0].ErrorDetail)
	}
}
