// backend/src/handlers/catalog_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/username/tradeflow/backend/src/catalog"
	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/utils"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	path    string
}

func NewCatalogHandler(cat *catalog.Catalog, path string) *CatalogHandler {
	return &CatalogHandler{catalog: cat, path: path}
}

// HandleReload rebuilds the catalog snapshot from the reference file.
// An empty reload result keeps the previous snapshot in force and is
// reported as unchanged, not as a failure; only a read error is a 500.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	err := h.catalog.LoadFromFile(h.path)
	switch {
	case errors.Is(err, catalog.ErrEmptyCatalog):
		utils.SendJSON(w, map[string]any{
			"status":   "unchanged",
			"warning":  "reload produced an empty catalog, previous snapshot retained",
			"products": h.catalog.Size(),
		}, http.StatusOK)
	case err != nil:
		logger.L.Error("Catalog reload failed", "path", h.path, "error", err)
		utils.SendJSONError(w, "catalog reload failed", http.StatusInternalServerError)
	default:
		utils.SendJSON(w, map[string]any{
			"status":   "reloaded",
			"products": h.catalog.Size(),
		}, http.StatusOK)
	}
}
