package links

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-attendance/backend/internal/models"
)

// ErrNotFound is returned when a link id is unknown or a token has no active link.
var ErrNotFound = errors.New("access link not found")

const linkColumns = `id, token, is_active, created_at`

// Repository handles access link persistence. Generate and Toggle each run in
// one transaction holding an EXCLUSIVE lock on access_links, so concurrent
// admin requests are serialized by PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a links repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Generate deactivates every link and inserts a new active one.
func (r *Repository) Generate(ctx context.Context) (*models.AccessLink, error) {
	var link models.AccessLink
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockLinks(ctx, tx); err != nil {
			return err
		}
		if err := deactivateAll(ctx, tx); err != nil {
			return err
		}
		const q = `INSERT INTO access_links (token, is_active) VALUES ($1, TRUE) RETURNING ` + linkColumns
		return scanLink(tx.QueryRow(ctx, q, uuid.NewString()), &link)
	})
	if err != nil {
		return nil, fmt.Errorf("generate link: %w", err)
	}
	return &link, nil
}

// Toggle flips one link. Activating deactivates all others first; deactivating
// may leave no active link.
func (r *Repository) Toggle(ctx context.Context, id int64) (*models.AccessLink, error) {
	var link models.AccessLink
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockLinks(ctx, tx); err != nil {
			return err
		}
		err := scanLink(tx.QueryRow(ctx, `SELECT `+linkColumns+` FROM access_links WHERE id = $1`, id), &link)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if link.IsActive {
			if _, err := tx.Exec(ctx, `UPDATE access_links SET is_active = FALSE WHERE id = $1`, id); err != nil {
				return err
			}
			link.IsActive = false
			return nil
		}
		if err := deactivateAll(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE access_links SET is_active = TRUE WHERE id = $1`, id); err != nil {
			return err
		}
		link.IsActive = true
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("toggle link %d: %w", id, err)
	}
	return &link, nil
}

// List returns all links, newest first.
func (r *Repository) List(ctx context.Context) ([]models.AccessLink, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+linkColumns+` FROM access_links ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()
	var list []models.AccessLink
	for rows.Next() {
		var l models.AccessLink
		if err := rows.Scan(&l.ID, &l.Token, &l.IsActive, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// GetActive returns the active link, or nil when no link is active.
func (r *Repository) GetActive(ctx context.Context) (*models.AccessLink, error) {
	var l models.AccessLink
	err := scanLink(r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM access_links WHERE is_active LIMIT 1`), &l)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active link: %w", err)
	}
	return &l, nil
}

// GetActiveByToken returns the active link carrying token, or ErrNotFound.
func (r *Repository) GetActiveByToken(ctx context.Context, token string) (*models.AccessLink, error) {
	var l models.AccessLink
	err := scanLink(r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM access_links WHERE token = $1 AND is_active`, token), &l)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get link by token: %w", err)
	}
	return &l, nil
}

func lockLinks(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `LOCK TABLE access_links IN EXCLUSIVE MODE`)
	return err
}

func deactivateAll(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `UPDATE access_links SET is_active = FALSE WHERE is_active`)
	return err
}

func scanLink(row pgx.Row, l *models.AccessLink) error {
	return row.Scan(&l.ID, &l.Token, &l.IsActive, &l.CreatedAt)
}
