package tenant

import (
	"github.com/OpenVertical/vertical/internal/pack/model"
)

// Tenant represents one business account. Each tenant owns an isolated set
// of catalog and workflow records, all scoped by tenant_id.
type Tenant struct {
	model.BaseModel
	Name          string   `gorm:"type:varchar(255);not null" json:"name"`                          // Business display name
	Specialty     string   `gorm:"type:varchar(100)" json:"specialty"`                              // Vertical hint, e.g. "juridico"
	ActiveModules []string `gorm:"type:jsonb;serializer:json" json:"active_modules"`                // Enabled module keys
	ShowFinancial bool     `gorm:"type:boolean;not null;default:true" json:"show_financial"`        // Display financial widgets
	ShowInventory bool     `gorm:"type:boolean;not null;default:false" json:"show_inventory"`       // Display stock widgets
	Active        bool     `gorm:"type:boolean;not null;default:true" json:"active"`                // Soft-disable flag
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}

// HasModule reports whether the given module key is active for the tenant.
func (t *Tenant) HasModule(key model.ModuleKey) bool {
	for _, m := range t.ActiveModules {
		if m == string(key) {
			return true
		}
	}
	return false
}

// TenantDTO is the API representation of a tenant.
type TenantDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Specialty     string   `json:"specialty"`
	ActiveModules []string `json:"activeModules"`
	ShowFinancial bool     `json:"showFinancial"`
	ShowInventory bool     `json:"showInventory"`
	Active        bool     `json:"active"`
}

// TenantsResponseDTO is the paginated list payload for tenants.
type TenantsResponseDTO struct {
	TotalCount int         `json:"totalCount"`
	Items      []TenantDTO `json:"items"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit"`
}

// CreateTenantRequest is the payload for registering a new tenant.
type CreateTenantRequest struct {
	Name          string `json:"name"`
	Specialty     string `json:"specialty"`
	ShowFinancial *bool  `json:"showFinancial,omitempty"`
	ShowInventory *bool  `json:"showInventory,omitempty"`
}

// ToDTO converts a Tenant to its API representation.
func (t *Tenant) ToDTO() TenantDTO {
	modules := t.ActiveModules
	if modules == nil {
		modules = []string{}
	}
	return TenantDTO{
		ID:            t.ID.String(),
		Name:          t.Name,
		Specialty:     t.Specialty,
		ActiveModules: modules,
		ShowFinancial: t.ShowFinancial,
		ShowInventory: t.ShowInventory,
		Active:        t.Active,
	}
}
