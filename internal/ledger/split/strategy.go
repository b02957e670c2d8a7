package split

import (
	"errors"
	"fmt"

	"github.com/tallyhq/tally/internal/money"
)

// Type identifies a split policy. The set is closed: every strategy the
// factory can produce is listed here.
type Type string

const (
	TypeEqual      Type = "EQUAL"
	TypePercentage Type = "PERCENTAGE"
	TypeExact      Type = "EXACT"
)

// Input is one participant in a split. Percentage carries the decimal
// percentage string for PERCENTAGE splits (e.g. "33.5"); Amount carries the
// fixed share for EXACT splits. Input order is part of the contract: equal
// splits hand leftover minor units to the earliest participants, and
// percentage splits break remainder ties the same way.
type Input struct {
	UserID     string       `json:"user_id"`
	Percentage *string      `json:"percentage,omitempty"`
	Amount     *money.Money `json:"amount,omitempty"`
}

// Share is a participant's computed part of the total.
type Share struct {
	UserID string      `json:"user_id"`
	Amount money.Money `json:"amount"`
}

// Strategy computes shares for one split policy. Every implementation
// guarantees the returned shares sum exactly to the total, in minor units,
// and preserve the participant input order.
type Strategy interface {
	Type() Type
	Validate(total money.Money, participants []Input) error
	Compute(total money.Money, participants []Input) ([]Share, error)
}

// ErrInvalidSplit is the kind every policy-payload failure wraps; callers
// match it with errors.Is.
var ErrInvalidSplit = errors.New("invalid split")

var (
	ErrNoParticipants       = fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	ErrDuplicateParticipant = fmt.Errorf("%w: duplicate participant", ErrInvalidSplit)
	ErrMissingPercentage    = fmt.Errorf("%w: percentage required for all participants", ErrInvalidSplit)
	ErrNegativePercentage   = fmt.Errorf("%w: percentages cannot be negative", ErrInvalidSplit)
	ErrPercentageSum        = fmt.Errorf("%w: percentages must sum to exactly 100", ErrInvalidSplit)
	ErrMissingExactAmount   = fmt.Errorf("%w: exact amount required for all participants", ErrInvalidSplit)
	ErrNegativeExactAmount  = fmt.Errorf("%w: exact amounts cannot be negative", ErrInvalidSplit)
	ErrExactAmountSum       = fmt.Errorf("%w: exact amounts must sum to the total", ErrInvalidSplit)

	// ErrNonPositiveTotal is an amount-kind failure, not a payload one.
	ErrNonPositiveTotal = fmt.Errorf("%w: total must be positive", money.ErrInvalidAmount)
)

// Factory creates split strategies from their type tag.
type Factory struct{}

// NewFactory creates a new factory instance.
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for the given type tag.
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	case TypeExact:
		return &ExactStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, t)
	}
}

// CreateFromString creates a strategy from a raw string tag, as received
// over the API.
func (f *Factory) CreateFromString(t string) (Strategy, error) {
	return f.Create(Type(t))
}

// validateCommon holds the checks shared by every policy: a non-empty,
// duplicate-free participant list and a strictly positive total.
func validateCommon(total money.Money, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, dup := seen[p.UserID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}
	return nil
}
