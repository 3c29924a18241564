// Package router exposes the template-pack HTTP endpoints.
package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/OpenVertical/vertical/internal/pack/registry"
	"github.com/OpenVertical/vertical/internal/pack/service"
)

// PackRouter handles HTTP routing for template-pack catalog endpoints.
type PackRouter struct {
	registry *registry.Registry
	applies  *service.ApplyService
}

// NewPackRouter creates a new PackRouter.
func NewPackRouter(reg *registry.Registry, applies *service.ApplyService) *PackRouter {
	return &PackRouter{
		registry: reg,
		applies:  applies,
	}
}

// HandleListPacks handles GET /api/v1/packs
// Returns summaries for every registered pack.
func (pr *PackRouter) HandleListPacks(w http.ResponseWriter, req *http.Request) {
	summaries := pr.registry.GetAllPackSummaries()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleGetPack handles GET /api/v1/packs/{packKey}
// Returns the full pack definition.
func (pr *PackRouter) HandleGetPack(w http.ResponseWriter, req *http.Request) {
	packKey := req.PathValue("packKey")

	pack, ok := pr.registry.GetPackByKey(packKey)
	if !ok {
		http.Error(w, "pack not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(pack); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleValidatePack handles POST /api/v1/packs/{packKey}/validate
// Runs validation and returns the findings without applying anything.
func (pr *PackRouter) HandleValidatePack(w http.ResponseWriter, req *http.Request) {
	packKey := req.PathValue("packKey")

	verrs, err := pr.applies.ValidatePack(packKey)
	if err != nil {
		if errors.Is(err, service.ErrPackNotFound) {
			http.Error(w, "pack not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to validate pack: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := struct {
		PackKey string `json:"packKey"`
		Valid   bool   `json:"valid"`
		Errors  []any  `json:"errors"`
	}{
		PackKey: packKey,
		Valid:   len(verrs) == 0,
		Errors:  make([]any, 0, len(verrs)),
	}
	for _, ve := range verrs {
		resp.Errors = append(resp.Errors, ve)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}
