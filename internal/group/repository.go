package group

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a group and its creator as the first member
func (r *Repository) Create(ctx context.Context, g *Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, query, g.ID, g.Name, g.CreatedBy).Scan(&g.CreatedAt); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	memberQuery := `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, memberQuery, g.ID, g.CreatedBy); err != nil {
		return fmt.Errorf("failed to add creator to group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit group: %w", err)
	}
	g.MemberIDs = []string{g.CreatedBy}
	return nil
}

// GetByID retrieves a group with its members, returning nil when absent
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `SELECT id, name, created_by, created_at FROM groups WHERE id = $1`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := r.MemberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	g.MemberIDs = members
	return g, nil
}

// MemberIDs retrieves a group's member ids ordered by join time
func (r *Repository) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	query := `
		SELECT user_id FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at, user_id
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, id)
	}
	return members, nil
}

// AddMember inserts a membership row; adding twice is a no-op
func (r *Repository) AddMember(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// ListByMember retrieves the groups a user belongs to
func (r *Repository) ListByMember(ctx context.Context, userID string) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY g.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}
