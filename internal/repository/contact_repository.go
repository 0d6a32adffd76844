package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexjuris/lexjuris-api/internal/models"
	"github.com/lexjuris/lexjuris-api/pkg/metrics"
)

// ContactRepository persists contact submissions to PostgreSQL.
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository creates a new contact repository
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Insert writes a new contact submission and returns its ID. Email and
// message are stored as NULL when empty.
func (r *ContactRepository) Insert(ctx context.Context, sub *models.ContactSubmission) (int64, error) {
	start := time.Now()

	query := `
		INSERT INTO contacts (first_name, last_name, email, phone, service_type, message, status, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, NOW())
		RETURNING id, created_at
	`

	var id int64
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query,
		sub.FirstName,
		sub.LastName,
		sub.Email,
		sub.Phone,
		sub.ServiceType,
		sub.Message,
		models.ContactStatusNew,
	).Scan(&id, &createdAt)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBOperationDuration.WithLabelValues("contact_insert", status).Observe(metrics.MeasureDuration(start))
	metrics.DBOperationTotal.WithLabelValues("contact_insert", status).Inc()

	if err != nil {
		return 0, err
	}

	sub.ID = id
	sub.Status = models.ContactStatusNew
	sub.CreatedAt = createdAt
	return id, nil
}
