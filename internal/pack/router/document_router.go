package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/OpenVertical/vertical/internal/auth"
	"github.com/OpenVertical/vertical/internal/document"
)

// DocumentRouter handles HTTP routing for document template endpoints.
type DocumentRouter struct {
	docs *document.Service
}

// NewDocumentRouter creates a new DocumentRouter.
func NewDocumentRouter(docs *document.Service) *DocumentRouter {
	return &DocumentRouter{docs: docs}
}

// HandleListTemplates handles GET /api/v1/documents
// Returns the document templates of the authenticated tenant.
func (dr *DocumentRouter) HandleListTemplates(w http.ResponseWriter, req *http.Request) {
	authCtx := auth.GetAuthContext(req.Context())
	if authCtx == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	templates, err := dr.docs.ListTemplates(req.Context(), authCtx.Tenant.ID)
	if err != nil {
		http.Error(w, "failed to list document templates: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(templates); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleGetFile handles GET /api/v1/documents/files/{key}
// Streams a stored rendering back to the caller. Keys are unguessable, so the
// route is public, matching the URLs GenerateURL hands out.
func (dr *DocumentRouter) HandleGetFile(w http.ResponseWriter, req *http.Request) {
	key := req.PathValue("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	reader, contentType, err := dr.docs.GetArtifact(req.Context(), key)
	if err != nil {
		http.Error(w, `{"error": "file not found"}`, http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, reader)
}

// HandleRenderDocument handles POST /api/v1/documents/{templateID}/render
// Renders the template with the supplied data and stores the artifact.
func (dr *DocumentRouter) HandleRenderDocument(w http.ResponseWriter, req *http.Request) {
	authCtx := auth.GetAuthContext(req.Context())
	if authCtx == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	templateID, err := uuid.Parse(req.PathValue("templateID"))
	if err != nil {
		http.Error(w, "invalid template ID", http.StatusBadRequest)
		return
	}

	var renderReq document.RenderRequest
	if err := json.NewDecoder(req.Body).Decode(&renderReq); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := dr.docs.RenderAndStore(req.Context(), authCtx.Tenant.ID, templateID, renderReq)
	if err != nil {
		var mve *document.MissingVariablesError
		switch {
		case errors.Is(err, document.ErrTemplateNotFound):
			http.Error(w, "document template not found", http.StatusNotFound)
		case errors.As(err, &mve):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":            "missing variables",
				"missingVariables": mve.Variables,
			})
		default:
			http.Error(w, "failed to render document: "+err.Error(), http.StatusInternalServerError)
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
