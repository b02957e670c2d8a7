package balance

import (
	"context"
	"fmt"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/money"
)

// NameResolver turns a participant id into a display name. Ids without a
// user record resolve to themselves.
type NameResolver interface {
	DisplayName(ctx context.Context, id string) (string, error)
}

// Service is a read-only projection over the ledger. It holds no state of
// its own and never mutates; it is safe to call at any time.
type Service struct {
	ledger *ledger.Ledger
	names  NameResolver
}

// NewService creates a new balance service with dependencies injected
func NewService(l *ledger.Ledger, names NameResolver) *Service {
	return &Service{ledger: l, names: names}
}

// TotalPosition returns the user's aggregate net balance across all
// counterparties.
func (s *Service) TotalPosition(userID string) (*TotalPositionResponse, error) {
	net, err := s.ledger.NetBalance(userID)
	if err != nil {
		return nil, err
	}

	var message string
	switch {
	case net.IsPositive():
		message = fmt.Sprintf("You are owed $%s overall", net)
	case net.IsNegative():
		message = fmt.Sprintf("You owe $%s overall", net.Neg())
	default:
		message = "You are all settled up"
	}
	return &TotalPositionResponse{UserID: userID, Amount: net.String(), Message: message}, nil
}

// DetailedPositions returns the user's nonzero counterparties ordered by
// counterparty id, with rendered owe/owed messages.
func (s *Service) DetailedPositions(ctx context.Context, userID string) ([]*PositionResponse, error) {
	seq, err := s.ledger.Counterparties(userID)
	if err != nil {
		return nil, err
	}

	positions := []*PositionResponse{}
	for c := range seq {
		name, err := s.names.DisplayName(ctx, c.UserID)
		if err != nil {
			return nil, err
		}
		positions = append(positions, &PositionResponse{
			UserID:  c.UserID,
			Name:    name,
			Amount:  c.Amount.String(),
			Message: positionMessage(name, c.Amount),
		})
	}
	return positions, nil
}

// AllNonzeroPairs returns every outstanding pairwise balance ordered by
// canonical pair key, for audit and export.
func (s *Service) AllNonzeroPairs() []*PairResponse {
	pairs := s.ledger.AllNonzeroPairs()
	out := make([]*PairResponse, len(pairs))
	for i, p := range pairs {
		out[i] = &PairResponse{UserA: p.First, UserB: p.Second, Amount: p.Amount.String()}
	}
	return out
}

// positionMessage renders one breakdown line; amount is positive when the
// counterparty owes the queried user.
func positionMessage(name string, amount money.Money) string {
	if amount.IsPositive() {
		return fmt.Sprintf("%s owes you $%s", name, amount)
	}
	return fmt.Sprintf("You owe %s $%s", name, amount.Neg())
}
