package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/money"
)

// ErrInvalidSettlement is the kind every settlement-validation failure
// wraps; callers match it with errors.Is.
var ErrInvalidSettlement = errors.New("invalid settlement")

var (
	ErrSelfSettlement     = fmt.Errorf("%w: cannot settle with yourself", ErrInvalidSettlement)
	ErrNonPositiveAmount  = fmt.Errorf("%w: amount must be positive", ErrInvalidSettlement)
	ErrSettlementNotFound = errors.New("settlement not found")
)

// AuditLog records settlements durably for later listing.
type AuditLog interface {
	Create(ctx context.Context, s *Settlement) error
	GetByID(ctx context.Context, id string) (*Settlement, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Settlement, int, error)
}

// SnapshotStore persists the exported ledger state after a successful
// mutation.
type SnapshotStore interface {
	Save(ctx context.Context, snap *ledger.Snapshot) error
}

// Service applies payments between users against the ledger. Validation is
// complete before the ledger is touched; because balances are integral
// minor units, exact-zero pruning inside the ledger is the only "debt
// cleared" rule and no epsilon threshold exists at this layer.
type Service struct {
	ledger    *ledger.Ledger
	audit     AuditLog
	snapshots SnapshotStore
}

// NewService creates a new settlement service with dependencies injected
func NewService(l *ledger.Ledger, audit AuditLog, snapshots SnapshotStore) *Service {
	return &Service{ledger: l, audit: audit, snapshots: snapshots}
}

// Settle records that payerID paid amount to payeeID and pays down the
// corresponding debt. Overpayment is allowed and flips the direction;
// callers wanting stricter behavior should check the pair balance first.
func (s *Service) Settle(ctx context.Context, payerID string, req *CreateSettlementRequest) (*Settlement, error) {
	if payerID == req.PayeeID {
		return nil, ErrSelfSettlement
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSettlement, err)
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	if err := s.ledger.AdjustPair(payerID, req.PayeeID, amount); err != nil {
		return nil, err
	}

	stl := &Settlement{
		ID:        uuid.NewString(),
		PayerID:   payerID,
		PayeeID:   req.PayeeID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.audit.Create(ctx, stl); err != nil {
		return nil, fmt.Errorf("settlement applied but audit write failed: %w", err)
	}
	if err := s.snapshots.Save(ctx, s.ledger.Export()); err != nil {
		return nil, fmt.Errorf("settlement applied but snapshot save failed: %w", err)
	}
	return stl, nil
}

// GetByID retrieves a settlement from the audit trail
func (s *Service) GetByID(ctx context.Context, id string) (*Settlement, error) {
	stl, err := s.audit.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stl == nil {
		return nil, ErrSettlementNotFound
	}
	return stl, nil
}

// ListByUser retrieves a page of the user's settlements, newest first
func (s *Service) ListByUser(ctx context.Context, userID string, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	return s.audit.ListByUser(ctx, userID, perPage, offset)
}
