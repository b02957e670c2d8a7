package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tallyhq/tally/internal/money"
)

// Repository persists the settlement audit trail
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a settlement row
func (r *Repository) Create(ctx context.Context, s *Settlement) error {
	query := `
		INSERT INTO settlements (id, payer_id, payee_id, amount_minor)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.PayerID, s.PayeeID, s.Amount.MinorUnits()).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// GetByID retrieves a settlement by its id, returning nil when absent
func (r *Repository) GetByID(ctx context.Context, id string) (*Settlement, error) {
	query := `
		SELECT id, payer_id, payee_id, amount_minor, created_at
		FROM settlements
		WHERE id = $1
	`
	s := &Settlement{}
	var minor int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.PayerID, &s.PayeeID, &minor, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	s.Amount = money.FromMinorUnits(minor)
	return s, nil
}

// ListByUser retrieves the settlements a user paid or received, newest first
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE payer_id = $1 OR payee_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT id, payer_id, payee_id, amount_minor, created_at
		FROM settlements
		WHERE payer_id = $1 OR payee_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		var minor int64
		if err := rows.Scan(&s.ID, &s.PayerID, &s.PayeeID, &minor, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		s.Amount = money.FromMinorUnits(minor)
		settlements = append(settlements, s)
	}
	return settlements, total, nil
}
