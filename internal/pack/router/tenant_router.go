package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/OpenVertical/vertical/internal/pack/service"
	"github.com/OpenVertical/vertical/internal/tenant"
)

// TenantRouter handles HTTP routing for tenant and pack-application endpoints.
type TenantRouter struct {
	tenants *tenant.Service
	applies *service.ApplyService
}

// NewTenantRouter creates a new TenantRouter.
func NewTenantRouter(tenants *tenant.Service, applies *service.ApplyService) *TenantRouter {
	return &TenantRouter{
		tenants: tenants,
		applies: applies,
	}
}

// HandleCreateTenant handles POST /api/v1/tenants
func (tr *TenantRouter) HandleCreateTenant(w http.ResponseWriter, req *http.Request) {
	var createReq tenant.CreateTenantRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	t, err := tr.tenants.Create(createReq)
	if err != nil {
		http.Error(w, "failed to create tenant: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(t.ToDTO()); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleListTenants handles GET /api/v1/tenants
// Optional Query Filters: offset, limit
func (tr *TenantRouter) HandleListTenants(w http.ResponseWriter, req *http.Request) {
	var offset, limit *int

	if offsetStr := req.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		offset = &v
	}

	if limitStr := req.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		limit = &v
	}

	resp, err := tr.tenants.List(offset, limit)
	if err != nil {
		http.Error(w, "failed to list tenants: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleGetTenant handles GET /api/v1/tenants/{tenantID}
func (tr *TenantRouter) HandleGetTenant(w http.ResponseWriter, req *http.Request) {
	tenantID, err := uuid.Parse(req.PathValue("tenantID"))
	if err != nil {
		http.Error(w, "invalid tenant ID", http.StatusBadRequest)
		return
	}

	t, err := tr.tenants.GetByID(tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			http.Error(w, "tenant not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to get tenant: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(t.ToDTO()); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleApplyPack handles POST /api/v1/tenants/{tenantID}/packs/{packKey}
// Applies a registered pack to the tenant.
func (tr *TenantRouter) HandleApplyPack(w http.ResponseWriter, req *http.Request) {
	tenantID := req.PathValue("tenantID")
	packKey := req.PathValue("packKey")

	result, err := tr.applies.ApplyPack(req.Context(), tenantID, packKey)
	if err != nil {
		var vfe *service.ValidationFailedError
		switch {
		case errors.As(err, &vfe):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":   "pack validation failed",
				"packKey": vfe.PackKey,
				"details": vfe.Errors,
			})
		case errors.Is(err, service.ErrPackNotFound):
			http.Error(w, "pack not found", http.StatusNotFound)
		case errors.Is(err, tenant.ErrTenantNotFound):
			http.Error(w, "tenant not found", http.StatusNotFound)
		default:
			http.Error(w, "failed to apply pack: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleListApplications handles GET /api/v1/tenants/{tenantID}/applies
// Returns the pack application history for the tenant, newest first.
func (tr *TenantRouter) HandleListApplications(w http.ResponseWriter, req *http.Request) {
	tenantID := req.PathValue("tenantID")

	records, err := tr.applies.ListApplications(tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			http.Error(w, "tenant not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to list pack applications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(records); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}
