package split

import (
	"fmt"

	"github.com/tallyhq/tally/internal/money"
)

// ExactStrategy uses caller-supplied per-participant amounts. The amounts
// must sum precisely to the total; no auto-correction is applied, exact
// means exact.
type ExactStrategy struct{}

// Type returns the split type identifier.
func (s *ExactStrategy) Type() Type {
	return TypeExact
}

// Validate checks if the inputs are valid for an exact split.
func (s *ExactStrategy) Validate(total money.Money, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	var sum money.Money
	for _, p := range participants {
		if p.Amount == nil {
			return fmt.Errorf("%w: %s", ErrMissingExactAmount, p.UserID)
		}
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeExactAmount, p.UserID)
		}
		sum = sum.Add(*p.Amount)
	}
	if sum != total {
		return fmt.Errorf("%w: supplied %s against total %s", ErrExactAmountSum, sum, total)
	}
	return nil
}

// Compute returns the supplied amounts in participant order.
func (s *ExactStrategy) Compute(total money.Money, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p.UserID, Amount: *p.Amount}
	}
	return shares, nil
}
