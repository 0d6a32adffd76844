package repository

import (
	"context"

	"github.com/lexjuris/lexjuris-api/internal/models"
)

// ContactRepositoryInterface defines contact submission persistence. The
// submission pipeline only ever inserts; reads and status updates belong to
// the external admin CRUD layer.
type ContactRepositoryInterface interface {
	Insert(ctx context.Context, sub *models.ContactSubmission) (int64, error)
}

// AdminRepositoryInterface defines admin user lookups.
type AdminRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}
