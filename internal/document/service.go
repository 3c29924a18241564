package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/internal/storage"
)

// ErrTemplateNotFound is returned when a document template ID does not exist
// for the tenant.
var ErrTemplateNotFound = errors.New("document template not found")

// RenderRequest carries the caller-supplied data for one rendering.
type RenderRequest struct {
	Tenant       map[string]string `json:"tenant,omitempty"`
	Customer     map[string]string `json:"customer,omitempty"`
	ServiceOrder map[string]string `json:"serviceOrder,omitempty"`
	Input        map[string]string `json:"input,omitempty"`
}

// RenderedDocumentDTO is the API representation of a stored rendering.
type RenderedDocumentDTO struct {
	TemplateID  string `json:"templateId"`
	Name        string `json:"name"`
	ArtifactKey string `json:"artifactKey"`
	URL         string `json:"url"`
}

// Service renders stored document templates and persists the artifacts.
type Service struct {
	db     *gorm.DB
	driver storage.Driver
}

// NewService creates a new document Service.
func NewService(db *gorm.DB, driver storage.Driver) *Service {
	return &Service{db: db, driver: driver}
}

// ListTemplates returns the document templates of a tenant.
func (s *Service) ListTemplates(ctx context.Context, tenantID uuid.UUID) ([]model.DocumentTemplate, error) {
	var templates []model.DocumentTemplate
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name asc").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list document templates: %w", err)
	}
	return templates, nil
}

// GetArtifact streams a stored rendering back from artifact storage.
func (s *Service) GetArtifact(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if s.driver == nil {
		return nil, "", fmt.Errorf("artifact storage is not configured")
	}
	return s.driver.Get(ctx, key)
}

// RenderAndStore renders the template against the request data and writes
// the result to artifact storage. The scope's tenant map falls back to the
// caller-supplied values; automatic fields use the service clock.
func (s *Service) RenderAndStore(ctx context.Context, tenantID uuid.UUID, templateID uuid.UUID, req RenderRequest) (*RenderedDocumentDTO, error) {
	var tpl model.DocumentTemplate
	if err := s.db.WithContext(ctx).
		First(&tpl, "id = ? AND tenant_id = ?", templateID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load document template: %w", err)
	}

	content, err := Render(&tpl, RenderScope{
		Tenant:       req.Tenant,
		Customer:     req.Customer,
		ServiceOrder: req.ServiceOrder,
		Input:        req.Input,
	})
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s-%d.html", tpl.ID, time.Now().UTC().UnixMilli())
	if s.driver != nil {
		if err := s.driver.Save(ctx, key, strings.NewReader(content), "text/html; charset=utf-8"); err != nil {
			return nil, fmt.Errorf("failed to store rendered document: %w", err)
		}
	}

	url := key
	if s.driver != nil {
		if u, err := s.driver.GenerateURL(ctx, key, time.Hour); err == nil {
			url = u
		}
	}

	slog.Info("rendered document", "tenant_id", tenantID, "template_id", templateID, "artifact_key", key)

	return &RenderedDocumentDTO{
		TemplateID:  tpl.ID.String(),
		Name:        tpl.Name,
		ArtifactKey: key,
		URL:         url,
	}, nil
}
