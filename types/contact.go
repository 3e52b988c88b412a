package types

import (
	"errors"
	"strings"
)

// ContactMessage is a row in the contacts table. Append-only; the site
// never reads contact messages back.
type ContactMessage struct {
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
	Message string `json:"message" db:"message"`
}

// ContactForm is the full submitted contact form. Name is validated but
// not persisted; contacts has no name column.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ErrInvalidContact carries the combined user-facing validation message.
// The same gate runs in the web client before any request is sent and on
// the server as the trust boundary.
var ErrInvalidContact = errors.New(
	"Please enter a valid name, email, phone (min 10 digits), and message (min 5 characters).")

// Validate applies the contact form gate: email must contain '@', phone
// at least 10 characters, message at least 5, name at least 2.
func (f ContactForm) Validate() error {
	if !strings.Contains(f.Email, "@") ||
		len(f.Phone) < 10 ||
		len(f.Message) < 5 ||
		len(f.Name) < 2 {
		return ErrInvalidContact
	}
	return nil
}

// Record returns the persisted portion of the form.
func (f ContactForm) Record() ContactMessage {
	return ContactMessage{
		Email:   f.Email,
		Phone:   f.Phone,
		Message: f.Message,
	}
}
