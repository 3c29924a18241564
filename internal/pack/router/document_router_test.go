package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OpenVertical/vertical/internal/document"
	"github.com/OpenVertical/vertical/internal/storage/drivers"
)

func TestHandleGetFileServesStoredArtifact(t *testing.T) {
	driver, err := drivers.NewLocalFSDriver(t.TempDir(), "/api/v1/documents/files")
	assert.NoError(t, err)

	key := "abcd1234-procuracao.html"
	err = driver.Save(t.Context(), key, strings.NewReader("<h1>Procuração</h1>"), "text/html; charset=utf-8")
	assert.NoError(t, err)

	dr := NewDocumentRouter(document.NewService(nil, driver))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/files/"+key, nil)
	req.SetPathValue("key", key)
	rec := httptest.NewRecorder()
	dr.HandleGetFile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>Procuração</h1>", rec.Body.String())
}

func TestHandleGetFileUnknownKey(t *testing.T) {
	driver, err := drivers.NewLocalFSDriver(t.TempDir(), "/api/v1/documents/files")
	assert.NoError(t, err)

	dr := NewDocumentRouter(document.NewService(nil, driver))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/files/nope.html", nil)
	req.SetPathValue("key", "nope.html")
	rec := httptest.NewRecorder()
	dr.HandleGetFile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
