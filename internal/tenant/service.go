package tenant

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/utils"
)

// ErrTenantNotFound is returned when a tenant ID does not exist.
var ErrTenantNotFound = errors.New("tenant not found")

// Service handles tenant persistence and module activation.
type Service struct {
	db *gorm.DB
}

// NewService creates a new tenant Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create registers a new tenant. Display flags default to financial on,
// inventory off when the request leaves them unset.
func (s *Service) Create(req CreateTenantRequest) (*Tenant, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("tenant name cannot be empty")
	}

	t := &Tenant{
		Name:          req.Name,
		Specialty:     req.Specialty,
		ActiveModules: []string{string(model.ModuleCore)},
		ShowFinancial: true,
		ShowInventory: false,
		Active:        true,
	}
	if req.ShowFinancial != nil {
		t.ShowFinancial = *req.ShowFinancial
	}
	if req.ShowInventory != nil {
		t.ShowInventory = *req.ShowInventory
	}

	if err := s.db.Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	return t, nil
}

// GetByID retrieves a tenant by its ID.
func (s *Service) GetByID(id uuid.UUID) (*Tenant, error) {
	var t Tenant
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &t, nil
}

// List returns a page of tenants ordered by creation time.
func (s *Service) List(offset *int, limit *int) (*TenantsResponseDTO, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var total int64
	if err := s.db.Model(&Tenant{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tenants: %w", err)
	}

	var tenants []Tenant
	if err := s.db.Order("created_at asc").Offset(finalOffset).Limit(finalLimit).Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	items := make([]TenantDTO, 0, len(tenants))
	for i := range tenants {
		items = append(items, tenants[i].ToDTO())
	}

	return &TenantsResponseDTO{
		TotalCount: int(total),
		Items:      items,
		Offset:     finalOffset,
		Limit:      finalLimit,
	}, nil
}

// ActivateModules enables the given module keys for the tenant inside the
// provided transaction, preserving already-active modules. Activation is
// additive, applying a pack never disables a module.
func (s *Service) ActivateModules(tx *gorm.DB, tenantID uuid.UUID, keys []model.ModuleKey) error {
	var t Tenant
	if err := tx.First(&t, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("failed to load tenant: %w", err)
	}

	active := make(map[string]bool, len(t.ActiveModules))
	for _, m := range t.ActiveModules {
		active[m] = true
	}
	for _, k := range keys {
		if !active[string(k)] {
			t.ActiveModules = append(t.ActiveModules, string(k))
			active[string(k)] = true
		}
	}

	if err := tx.Model(&Tenant{}).Where("id = ?", tenantID).Update("active_modules", t.ActiveModules).Error; err != nil {
		return fmt.Errorf("failed to update tenant modules: %w", err)
	}
	return nil
}
