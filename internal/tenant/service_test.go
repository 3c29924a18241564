package tenant

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, sqlMock
}

func tenantRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"name", "specialty", "active_modules",
		"show_financial", "show_inventory", "active",
	})
	now := time.Now().UTC()
	for _, id := range ids {
		rows.AddRow(id, now, now, "Tenant", "juridico", `["core"]`, true, false, true)
	}
	return rows
}

func TestServiceGetByID(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	service := NewService(db)

	tenantID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY "tenants"."id" LIMIT \$2`).
		WithArgs(tenantID, 1).
		WillReturnRows(tenantRows(tenantID))

	result, err := service.GetByID(tenantID)
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, tenantID, result.ID)
	assert.Equal(t, []string{"core"}, result.ActiveModules)
}

func TestServiceGetByIDNotFound(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	service := NewService(db)

	tenantID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY "tenants"."id" LIMIT \$2`).
		WithArgs(tenantID, 1).
		WillReturnRows(tenantRows())

	result, err := service.GetByID(tenantID)
	assert.ErrorIs(t, err, ErrTenantNotFound)
	assert.Nil(t, result)
}

func TestServiceList(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	service := NewService(db)

	sqlMock.ExpectQuery(`SELECT count\(\*\) FROM "tenants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	sqlMock.ExpectQuery(`SELECT \* FROM "tenants" ORDER BY created_at asc LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(tenantRows(uuid.New(), uuid.New()))

	resp, err := service.List(nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 0, resp.Offset)
	assert.Equal(t, 20, resp.Limit)
}

func TestServiceCreateRejectsEmptyName(t *testing.T) {
	db, _ := setupMockDB(t)
	service := NewService(db)

	_, err := service.Create(CreateTenantRequest{})
	assert.Error(t, err)
}

func TestTenantHasModule(t *testing.T) {
	tn := Tenant{ActiveModules: []string{"core", "documents"}}
	assert.True(t, tn.HasModule("core"))
	assert.True(t, tn.HasModule("documents"))
	assert.False(t, tn.HasModule("pdv"))
}

func TestTenantToDTO(t *testing.T) {
	tn := Tenant{
		Name:          "Escritório",
		Specialty:     "juridico",
		ShowFinancial: true,
		Active:        true,
	}
	tn.ID = uuid.New()

	dto := tn.ToDTO()
	assert.Equal(t, tn.ID.String(), dto.ID)
	assert.Equal(t, "Escritório", dto.Name)
	assert.NotNil(t, dto.ActiveModules, "nil module list must serialize as an empty array")
	assert.Empty(t, dto.ActiveModules)
}
