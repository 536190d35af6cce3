package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/horizonbtp/vitrine/internal/admin"
	apperrors "github.com/horizonbtp/vitrine/internal/errors"
	"github.com/horizonbtp/vitrine/internal/models"
)

// PublicHandler serves the end-user submission forms. Submissions go
// through the same mutation flow as admin writes so every open back-office
// view reconciles immediately.
type PublicHandler struct {
	flow *admin.Flow
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(flow *admin.Flow) *PublicHandler {
	return &PublicHandler{flow: flow}
}

// SubmitContact handles POST /api/contact.
func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrInvalid, "invalid request body", err))
		return
	}

	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Email) == "" || strings.TrimSpace(body.Message) == "" {
		writeError(w, apperrors.New(apperrors.ErrValidation, "name, email and message are required"))
		return
	}

	contact := &models.ContactMessage{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Subject: body.Subject,
		Message: body.Message,
		Status:  models.ContactNew,
	}

	created, err := h.flow.Insert(r.Context(), models.TableContacts, contact)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// SubmitTestimonial handles POST /api/testimonials. New testimonials enter
// moderation; they only reach the public list once an admin approves them.
func (h *PublicHandler) SubmitTestimonial(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Author  string `json:"author"`
		Message string `json:"message"`
		Rating  int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrInvalid, "invalid request body", err))
		return
	}

	if strings.TrimSpace(body.Author) == "" || strings.TrimSpace(body.Message) == "" {
		writeError(w, apperrors.New(apperrors.ErrValidation, "author and message are required"))
		return
	}
	if body.Rating < 0 || body.Rating > 5 {
		writeError(w, apperrors.New(apperrors.ErrValidation, "rating must be between 0 and 5"))
		return
	}

	testimonial := &models.Testimonial{
		Author:  body.Author,
		Message: body.Message,
		Rating:  body.Rating,
		Status:  models.TestimonialPending,
	}

	created, err := h.flow.Insert(r.Context(), models.TableTestimonials, testimonial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
