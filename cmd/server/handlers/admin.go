package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/horizonbtp/vitrine/internal/admin"
	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/gateway"
	"github.com/horizonbtp/vitrine/internal/models"
)

// AdminHandler exposes the back-office CRUD over the mutation flow. Every
// route is behind the admin role; a confirmed write fans out to all open
// views through the flow's bus publish.
type AdminHandler struct {
	flow *admin.Flow
	gw   gateway.Gateway
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(flow *admin.Flow, gw gateway.Gateway) *AdminHandler {
	return &AdminHandler{flow: flow, gw: gw}
}

// Create handles POST /api/admin/{table}.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	row, err := decodeRow(table, r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.flow.Insert(r.Context(), table, row)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/{table}/{id}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := models.UUID(r.PathValue("id"))

	row, err := decodeRow(table, r.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.flow.Update(r.Context(), table, id, row)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/{table}/{id}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := models.UUID(r.PathValue("id"))

	if err := h.flow.Delete(r.Context(), table, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id.String()})
}

// SetStatus handles PATCH /api/admin/{table}/{id}/status.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := models.UUID(r.PathValue("id"))

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrInvalid, "invalid request body", err))
		return
	}

	updated, err := h.flow.SetStatus(r.Context(), table, id, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Get handles GET /api/admin/{table}/{id}: loads one row for the editor.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	table, err := tableFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := models.UUID(r.PathValue("id"))

	row, err := h.gw.Get(r.Context(), table, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}
