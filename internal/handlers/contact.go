package handlers

import (
	"errors"
	"net/http"

	"github.com/folioweb/siteserver/internal/services"
	"github.com/folioweb/siteserver/types"
	"go.uber.org/zap"
)

// ContactHandler serves the contact form submission route.
type ContactHandler struct {
	contacts *services.ContactService
	log      *zap.Logger
}

func NewContactHandler(contacts *services.ContactService, log *zap.Logger) *ContactHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactHandler{contacts: contacts, log: log}
}

// Submit validates and stores a contact message. The client runs the
// same gate before sending, but the server is the trust boundary.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeResult(w, http.StatusBadRequest, false, "Invalid form data.")
		return
	}

	form := types.ContactForm{
		Name:    formValue(r, "name"),
		Email:   formValue(r, "email"),
		Phone:   formValue(r, "phone"),
		Message: formValue(r, "message"),
	}
	if err := form.Validate(); err != nil {
		if errors.Is(err, types.ErrInvalidContact) {
			writeResult(w, http.StatusBadRequest, false, err.Error())
			return
		}
		writeResult(w, http.StatusBadRequest, false, "Invalid form data.")
		return
	}

	if err := h.contacts.Submit(r.Context(), form.Record()); err != nil {
		h.log.Error("contact submission failed", zap.Error(err))
		writeResult(w, http.StatusInternalServerError, false, "Error saving data")
		return
	}

	writeResult(w, http.StatusOK, true, "Your message has been sent successfully!")
}
