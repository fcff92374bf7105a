package roster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-attendance/backend/internal/models"
)

// Repository reads the attendee roster.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a roster repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAttendees returns every attendee in the given order.
func (r *Repository) ListAttendees(ctx context.Context, s Sort) ([]models.Attendee, error) {
	q := `SELECT id, name, role, group_name, created_at, access_token_used FROM attendees ORDER BY ` + s.orderBy()
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()
	var list []models.Attendee
	for rows.Next() {
		var a models.Attendee
		if err := rows.Scan(&a.ID, &a.Name, &a.Role, &a.Group, &a.Timestamp, &a.AccessTokenUsed); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
