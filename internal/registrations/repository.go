package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-attendance/backend/internal/models"
)

// ErrLinkInactive is returned when the submitted token has no active link at insert time.
var ErrLinkInactive = errors.New("access link is not active")

// Repository handles attendee persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an attendee only if a.AccessTokenUsed still names the active
// link. The check and insert are one statement.
func (r *Repository) Create(ctx context.Context, a *models.Attendee) error {
	const q = `INSERT INTO attendees (name, role, group_name, created_at, access_token_used)
		SELECT $1, $2, $3, $4, token FROM access_links WHERE token = $5 AND is_active
		RETURNING id`
	err := r.pool.QueryRow(ctx, q, a.Name, a.Role, a.Group, a.Timestamp, a.AccessTokenUsed).Scan(&a.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLinkInactive
	}
	if err != nil {
		return fmt.Errorf("insert attendee: %w", err)
	}
	return nil
}
