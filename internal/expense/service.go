package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/ledger/split"
	"github.com/tallyhq/tally/internal/money"
)

// Common errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNoParticipants  = errors.New("participants or group_id required")
)

// UserDirectory is the slice of the user feature the expense service needs
// to fail fast on identifiers it has never been introduced to.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// GroupDirectory supplies a group's member ids when an expense names a
// group instead of explicit participants.
type GroupDirectory interface {
	MemberIDs(ctx context.Context, groupID string) ([]string, error)
}

// SnapshotStore persists the exported ledger state after a successful
// mutation.
type SnapshotStore interface {
	Save(ctx context.Context, snap *ledger.Snapshot) error
}

// Service handles expense business logic: it validates participants,
// dispatches the split strategy, folds the shares into the ledger and
// persists the resulting snapshot.
type Service struct {
	ledger       *ledger.Ledger
	splitFactory *split.Factory
	users        UserDirectory
	groups       GroupDirectory
	snapshots    SnapshotStore
}

// NewService creates a new expense service with dependencies injected
func NewService(l *ledger.Ledger, splitFactory *split.Factory, users UserDirectory, groups GroupDirectory, snapshots SnapshotStore) *Service {
	return &Service{
		ledger:       l,
		splitFactory: splitFactory,
		users:        users,
		groups:       groups,
		snapshots:    snapshots,
	}
}

// Create validates the request, computes shares and records the expense.
// All validation happens before the ledger is touched, so a failure leaves
// no partial mutation behind.
func (s *Service) Create(ctx context.Context, payerID string, req *CreateExpenseRequest) (*ledger.Record, error) {
	total, err := money.ParsePositive(req.Amount)
	if err != nil {
		return nil, err
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, err
	}

	inputs, err := s.buildInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.requireUser(ctx, payerID); err != nil {
		return nil, err
	}
	for _, in := range inputs {
		if err := s.requireUser(ctx, in.UserID); err != nil {
			return nil, err
		}
	}

	computed, err := strategy.Compute(total, inputs)
	if err != nil {
		return nil, err
	}

	shares := make([]ledger.Share, len(computed))
	for i, sh := range computed {
		shares[i] = ledger.Share{UserID: sh.UserID, Amount: sh.Amount}
	}

	rec := s.ledger.RecordExpense(payerID, req.Description, total, shares, string(strategy.Type()))

	if err := s.snapshots.Save(ctx, s.ledger.Export()); err != nil {
		return nil, fmt.Errorf("expense recorded but snapshot save failed: %w", err)
	}
	return rec, nil
}

// GetByID retrieves an expense record from the journal
func (s *Service) GetByID(id string) (*ledger.Record, error) {
	rec, ok := s.ledger.Expense(id)
	if !ok {
		return nil, ErrExpenseNotFound
	}
	return rec, nil
}

// ListByUser retrieves the expenses a user paid for or holds a share of,
// newest first
func (s *Service) ListByUser(userID string) []ledger.Record {
	return s.ledger.ExpensesInvolving(userID)
}

// buildInputs assembles split inputs from explicit participants or, when
// absent, from the named group's member list.
func (s *Service) buildInputs(ctx context.Context, req *CreateExpenseRequest) ([]split.Input, error) {
	if len(req.Participants) > 0 {
		inputs := make([]split.Input, len(req.Participants))
		for i, p := range req.Participants {
			in := split.Input{UserID: p.UserID, Percentage: p.Percentage}
			if p.Amount != nil {
				amt, err := money.Parse(*p.Amount)
				if err != nil {
					return nil, err
				}
				in.Amount = &amt
			}
			inputs[i] = in
		}
		return inputs, nil
	}

	if req.GroupID == nil {
		return nil, ErrNoParticipants
	}
	members, err := s.groups.MemberIDs(ctx, *req.GroupID)
	if err != nil {
		return nil, err
	}
	inputs := make([]split.Input, len(members))
	for i, id := range members {
		inputs[i] = split.Input{UserID: id}
	}
	return inputs, nil
}

func (s *Service) requireUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ledger.ErrUnknownParticipant, id)
	}
	return nil
}
