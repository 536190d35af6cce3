// Package handlers provides the REST handlers over the catalog stores, the
// admin mutation flow and the public submission forms.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/models"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError converts an application error into a user-visible JSON
// response. Gateway failures are never fatal to the caller: the worst it
// sees is this message plus whatever snapshot it already had.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	if code == apperrors.ErrMutationFailed {
		// The mutation wrapper carries the actual refusal underneath;
		// that code decides the status.
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Err != nil {
			code = apperrors.CodeOf(appErr.Err)
		}
	}
	writeJSON(w, httpStatusFor(code), map[string]interface{}{
		"error": err.Error(),
		"code":  string(code),
	})
}

// httpStatusFor maps error codes to HTTP statuses.
func httpStatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrValidation, apperrors.ErrInvalid, apperrors.ErrInvalidStatus:
		return http.StatusBadRequest
	case apperrors.ErrNotFound, apperrors.ErrRowNotFound, apperrors.ErrUnknownTable:
		return http.StatusNotFound
	case apperrors.ErrAuthToken, apperrors.ErrAuthExpired:
		return http.StatusUnauthorized
	case apperrors.ErrAuthRole, apperrors.ErrPermission:
		return http.StatusForbidden
	case apperrors.ErrGateway, apperrors.ErrGatewayQuery, apperrors.ErrGatewayWrite:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// tableFromPath resolves the {table} path segment to a catalog table.
func tableFromPath(r *http.Request) (models.Table, error) {
	table := models.Table(r.PathValue("table"))
	if !table.Valid() {
		return "", apperrors.New(apperrors.ErrUnknownTable, fmt.Sprintf("unknown table %q", table))
	}
	return table, nil
}

// decodeRow unmarshals a request body into the typed row of a table. The
// gateway re-validates at its own boundary; this only gets the payload into
// the right shape.
func decodeRow(table models.Table, body io.Reader) (models.Row, error) {
	var row models.Row
	switch table {
	case models.TableProperties:
		row = &models.Property{}
	case models.TableProjects:
		row = &models.Project{}
	case models.TableVehicles:
		row = &models.Vehicle{}
	case models.TableTestimonials:
		row = &models.Testimonial{}
	case models.TableContacts:
		row = &models.ContactMessage{}
	default:
		return nil, apperrors.New(apperrors.ErrUnknownTable, fmt.Sprintf("unknown table %q", table))
	}

	if err := json.NewDecoder(body).Decode(row); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalid, "invalid request body", err)
	}
	return row, nil
}
