// backend/src/handlers/catalog_handler_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradeflow/backend/src/catalog"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHandleReload(t *testing.T) {
	path := writeCatalogFile(t, "1,Treasury Bills Domestic\n2,Corporate Bonds Domestic\n")
	cat := catalog.New()
	h := NewCatalogHandler(cat, path)

	rr := httptest.NewRecorder()
	h.HandleReload(rr, httptest.NewRequest(http.MethodPost, "/api/admin/catalog/reload", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "reloaded", resp["status"])
	assert.EqualValues(t, 2, resp["products"])
}

func TestHandleReloadEmptyKeepsSnapshot(t *testing.T) {
	path := writeCatalogFile(t, "1,Treasury Bills Domestic\n")
	cat := catalog.New()
	require.NoError(t, cat.LoadFromFile(path))

	// Overwrite the reference file with garbage and reload.
	require.NoError(t, os.WriteFile(path, []byte("malformed\n"), 0o644))
	h := NewCatalogHandler(cat, path)

	rr := httptest.NewRecorder()
	h.HandleReload(rr, httptest.NewRequest(http.MethodPost, "/api/admin/catalog/reload", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "unchanged", resp["status"])
	assert.EqualValues(t, 1, resp["products"])
	assert.Equal(t, "Treasury Bills Domestic", cat.Lookup("1"))
}

func TestHandleReloadReadFailure(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Load(strings.NewReader("1,Treasury Bills Domestic\n")))
	h := NewCatalogHandler(cat, filepath.Join(t.TempDir(), "missing.csv"))

	rr := httptest.NewRecorder()
	h.HandleReload(rr, httptest.NewRequest(http.MethodPost, "/api/admin/catalog/reload", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Treasury Bills Domestic", cat.Lookup("1"), "previous snapshot stays in force")
}
