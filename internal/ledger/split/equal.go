package split

import "github.com/tallyhq/tally/internal/money"

// EqualStrategy divides the total evenly among all participants. Everyone
// gets floor(total/n) minor units; the remaining total-n*floor units go one
// each to the earliest participants in the supplied order, so the shares
// always sum exactly to the total.
type EqualStrategy struct{}

// Type returns the split type identifier.
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Validate checks if the inputs are valid for an equal split.
func (s *EqualStrategy) Validate(total money.Money, participants []Input) error {
	return validateCommon(total, participants)
}

// Compute divides the total among all participants, payer included; the
// ledger drops the payer's self-share when the expense is folded in.
func (s *EqualStrategy) Compute(total money.Money, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	n := int64(len(participants))
	base := total.MinorUnits() / n
	remainder := total.MinorUnits() - base*n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		shares[i] = Share{UserID: p.UserID, Amount: money.FromMinorUnits(amount)}
	}
	return shares, nil
}
