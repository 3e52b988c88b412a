package store

import (
	"context"
	"database/sql"

	"github.com/folioweb/siteserver/types"
)

// ContactRepository handles persistence for contact messages.
// Messages are append-only and never read back by the site.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg types.ContactMessage) error {
	const query = `
		INSERT INTO contacts (email, phone, message)
		VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, msg.Email, msg.Phone, msg.Message)
	return err
}
