// Package pack coordinates the template-pack subsystem: the built-in pack
// registry, validation and application services, document rendering, and
// their HTTP routers.
package pack

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/OpenVertical/vertical/internal/applylog"
	"github.com/OpenVertical/vertical/internal/document"
	"github.com/OpenVertical/vertical/internal/pack/registry"
	"github.com/OpenVertical/vertical/internal/pack/router"
	"github.com/OpenVertical/vertical/internal/pack/service"
	"github.com/OpenVertical/vertical/internal/storage"
	"github.com/OpenVertical/vertical/internal/tenant"
)

// Manager coordinates between the pack services and their routers.
type Manager struct {
	registry        *registry.Registry
	tenantService   *tenant.Service
	applyService    *service.ApplyService
	documentService *document.Service
	packRouter      *router.PackRouter
	tenantRouter    *router.TenantRouter
	documentRouter  *router.DocumentRouter
}

// NewManager creates a new pack Manager wired to the given database, apply
// log and artifact storage.
func NewManager(db *gorm.DB, log *applylog.Store, artifacts storage.Driver) *Manager {
	reg := registry.NewRegistry()
	tenantService := tenant.NewService(db)
	applyService := service.NewApplyService(db, reg, tenantService, log)
	documentService := document.NewService(db, artifacts)

	m := &Manager{
		registry:        reg,
		tenantService:   tenantService,
		applyService:    applyService,
		documentService: documentService,
	}

	m.packRouter = router.NewPackRouter(reg, applyService)
	m.tenantRouter = router.NewTenantRouter(tenantService, applyService)
	m.documentRouter = router.NewDocumentRouter(documentService)

	return m
}

// TenantService exposes the tenant service for middleware wiring.
func (m *Manager) TenantService() *tenant.Service {
	return m.tenantService
}

// Pack catalog endpoints

func (m *Manager) HandleListPacks(w http.ResponseWriter, r *http.Request) {
	m.packRouter.HandleListPacks(w, r)
}

func (m *Manager) HandleGetPack(w http.ResponseWriter, r *http.Request) {
	m.packRouter.HandleGetPack(w, r)
}

func (m *Manager) HandleValidatePack(w http.ResponseWriter, r *http.Request) {
	m.packRouter.HandleValidatePack(w, r)
}

// Tenant and application endpoints

func (m *Manager) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	m.tenantRouter.HandleCreateTenant(w, r)
}

func (m *Manager) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	m.tenantRouter.HandleListTenants(w, r)
}

func (m *Manager) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	m.tenantRouter.HandleGetTenant(w, r)
}

func (m *Manager) HandleApplyPack(w http.ResponseWriter, r *http.Request) {
	m.tenantRouter.HandleApplyPack(w, r)
}

func (m *Manager) HandleListApplications(w http.ResponseWriter, r *http.Request) {
	m.tenantRouter.HandleListApplications(w, r)
}

// Document endpoints

func (m *Manager) HandleListDocumentTemplates(w http.ResponseWriter, r *http.Request) {
	m.documentRouter.HandleListTemplates(w, r)
}

func (m *Manager) HandleRenderDocument(w http.ResponseWriter, r *http.Request) {
	m.documentRouter.HandleRenderDocument(w, r)
}

func (m *Manager) HandleGetDocumentFile(w http.ResponseWriter, r *http.Request) {
	m.documentRouter.HandleGetFile(w, r)
}
