package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexjuris/lexjuris-api/internal/models"
	apperrors "github.com/lexjuris/lexjuris-api/pkg/errors"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

// AdminRepository reads admin users from PostgreSQL.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// Matches on LOWER(email) so lookups are case-insensitive regardless of how
// the row was seeded; idx_admins_email indexes the same expression.
const adminByEmailQuery = `
	SELECT id, name, email, password_hash, role, active
	FROM admins
	WHERE LOWER(email) = LOWER($1)
	LIMIT 1
`

// GetByEmail returns the admin row for email, including inactive accounts.
// Callers decide how to treat the active flag.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	start := time.Now()

	var admin models.Admin
	var role string
	err := r.pool.QueryRow(ctx, adminByEmailQuery, email).Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&role,
		&admin.Active,
	)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBOperationDuration.WithLabelValues("admin_get_by_email", status).Observe(metrics.MeasureDuration(start))
	metrics.DBOperationTotal.WithLabelValues("admin_get_by_email", status).Inc()

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("admin")
		}
		return nil, err
	}

	admin.Role = models.AdminRole(role)
	return &admin, nil
}
