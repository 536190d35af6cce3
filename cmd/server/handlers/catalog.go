package handlers

import (
	"net/http"
	"strconv"

	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/filter"
	"github.com/horizonbtp/vitrine/internal/models"
	"github.com/horizonbtp/vitrine/internal/store"
)

// categoricalParams are the query parameters forwarded to the filter engine
// as categorical predicates.
var categoricalParams = []string{"status", "city", "neighborhood", "property_type", "category", "make", "fuel_type"}

// CatalogHandler serves the public list views. Each catalog is backed by
// one collection store; filtering happens client-side of the gateway, on
// the store's snapshot.
type CatalogHandler struct {
	stores          map[models.Table]*store.Store
	defaultPageSize int
}

// NewCatalogHandler creates a CatalogHandler over the bound stores.
func NewCatalogHandler(stores map[models.Table]*store.Store, defaultPageSize int) *CatalogHandler {
	if defaultPageSize < 1 {
		defaultPageSize = 20
	}
	return &CatalogHandler{stores: stores, defaultPageSize: defaultPageSize}
}

// List handles GET /api/catalog/{table}.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, ok := h.stores[table]
	if !ok {
		writeError(w, apperrors.New(apperrors.ErrUnknownTable, "catalog not served"))
		return
	}

	// A store that never loaded successfully is a failed-to-load state,
	// distinct from a valid empty snapshot.
	if !st.Loaded() {
		if lastErr := st.LastError(); lastErr != nil {
			writeError(w, lastErr)
			return
		}
	}

	snapshot := st.Snapshot()
	criteria := criteriaFromQuery(r)
	visible := filter.Apply(snapshot.Rows, criteria)

	page, perPage := h.pagination(r)
	start := (page - 1) * perPage
	if start > len(visible) {
		start = len(visible)
	}
	end := start + perPage
	if end > len(visible) {
		end = len(visible)
	}

	items := visible[start:end]
	if items == nil {
		items = []models.Row{}
	}

	totalPages := (len(visible) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":       items,
		"total":       len(visible),
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
		"loaded_at":   snapshot.LoadedAt.Unix(),
	})
}

// Refresh handles POST /api/catalog/{table}/refresh: the manual refresh
// action. On failure the previous snapshot stays visible and the error is
// reported.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, ok := h.stores[table]
	if !ok {
		writeError(w, apperrors.New(apperrors.ErrUnknownTable, "catalog not served"))
		return
	}

	if err := st.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	snapshot := st.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table":     table.String(),
		"total":     len(snapshot.Rows),
		"loaded_at": snapshot.LoadedAt.Unix(),
	})
}

// criteriaFromQuery builds filter criteria from list query parameters.
// Absent or "all" values leave the predicate inactive.
func criteriaFromQuery(r *http.Request) filter.Criteria {
	q := r.URL.Query()

	criteria := filter.Criteria{Search: q.Get("q")}
	for _, name := range categoricalParams {
		if v := q.Get(name); v != "" {
			criteria = criteria.WithField(name, v)
		}
	}
	if v := q.Get("price_min"); v != "" {
		if min, err := strconv.ParseFloat(v, 64); err == nil && min > 0 {
			criteria.PriceMin = min
		}
	}
	if v := q.Get("price_max"); v != "" {
		if max, err := strconv.ParseFloat(v, 64); err == nil && max > 0 {
			criteria.PriceMax = max
		}
	}
	return criteria
}

// pagination parses page/per_page with the handler defaults.
func (h *CatalogHandler) pagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = h.defaultPageSize
	}
	return page, perPage
}
