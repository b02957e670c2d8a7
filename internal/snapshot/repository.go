package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/money"
)

// Repository persists full ledger snapshots in postgres. Save replaces the
// stored snapshot wholesale; the in-memory ledger is the source of truth
// and the tables only exist to survive restarts.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save writes the snapshot in one transaction, replacing whatever was
// stored before.
func (r *Repository) Save(ctx context.Context, snap *ledger.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pair_balances`); err != nil {
		return fmt.Errorf("failed to clear pair balances: %w", err)
	}
	for _, pb := range snap.Balances {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pair_balances (user_a, user_b, amount_minor)
			VALUES ($1, $2, $3)`,
			pb.First, pb.Second, pb.Amount.MinorUnits())
		if err != nil {
			return fmt.Errorf("failed to insert pair balance: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_records`); err != nil {
		return fmt.Errorf("failed to clear expense records: %w", err)
	}
	for i, rec := range snap.Expenses {
		shares, err := json.Marshal(rec.Shares)
		if err != nil {
			return fmt.Errorf("failed to marshal shares: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO expense_records (id, position, description, total_minor, payer_id, shares, policy, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, i, rec.Description, rec.Total.MinorUnits(), rec.PayerID, shares, rec.Policy, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert expense record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. An empty database loads as an empty
// snapshot, not an error.
func (r *Repository) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_a, user_b, amount_minor
		FROM pair_balances
		ORDER BY user_a, user_b`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a, b string
		var minor int64
		if err := rows.Scan(&a, &b, &minor); err != nil {
			return nil, fmt.Errorf("failed to scan pair balance: %w", err)
		}
		snap.Balances = append(snap.Balances, ledger.PairBalance{
			First:  a,
			Second: b,
			Amount: money.FromMinorUnits(minor),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pair balances: %w", err)
	}

	expRows, err := r.db.QueryContext(ctx, `
		SELECT id, description, total_minor, payer_id, shares, policy, created_at
		FROM expense_records
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense records: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var rec ledger.Record
		var totalMinor int64
		var shares []byte
		if err := expRows.Scan(&rec.ID, &rec.Description, &totalMinor, &rec.PayerID, &shares, &rec.Policy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense record: %w", err)
		}
		rec.Total = money.FromMinorUnits(totalMinor)
		if err := json.Unmarshal(shares, &rec.Shares); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shares for expense %s: %w", rec.ID, err)
		}
		snap.Expenses = append(snap.Expenses, rec)
	}
	if err := expRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expense records: %w", err)
	}

	return snap, nil
}
