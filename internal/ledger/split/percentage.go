package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/money"
)

// basisPointsPerWhole is 100% expressed in basis points.
const basisPointsPerWhole = 10000

// PercentageStrategy divides the total according to per-participant
// percentages. Percentages are scaled to integral basis points (33.5% ->
// 3350 bp) and must sum to exactly 10000; anything finer than 0.01% is
// rejected rather than silently rounded.
type PercentageStrategy struct{}

// Type returns the split type identifier.
func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

// Validate checks if the inputs are valid for a percentage split.
func (s *PercentageStrategy) Validate(total money.Money, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	var sum int64
	for _, p := range participants {
		bp, err := basisPoints(p)
		if err != nil {
			return err
		}
		sum += bp
	}
	if sum != basisPointsPerWhole {
		return fmt.Errorf("%w: got %s%%", ErrPercentageSum, decimal.New(sum, -2))
	}
	return nil
}

// Compute rounds each share half away from zero and hands the residual
// minor units to the participant with the largest fractional remainder
// (largest-remainder method), so the shares always sum exactly to the
// total. Remainder ties resolve to the earliest participant.
func (s *PercentageStrategy) Compute(total money.Money, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	var (
		distributed money.Money
		largestRem  int64 = -1
		largestIdx  int
	)
	for i, p := range participants {
		bp, err := basisPoints(p)
		if err != nil {
			return nil, err
		}
		raw := total.MinorUnits() * bp
		share := raw / basisPointsPerWhole
		rem := raw % basisPointsPerWhole
		if rem*2 >= basisPointsPerWhole {
			share++
		}
		if rem > largestRem {
			largestRem = rem
			largestIdx = i
		}
		shares[i] = Share{UserID: p.UserID, Amount: money.FromMinorUnits(share)}
		distributed = distributed.Add(shares[i].Amount)
	}

	if residual := total.Sub(distributed); !residual.IsZero() {
		shares[largestIdx].Amount = shares[largestIdx].Amount.Add(residual)
	}
	return shares, nil
}

// basisPoints converts a participant's decimal percentage string into
// integral basis points.
func basisPoints(p Input) (int64, error) {
	if p.Percentage == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingPercentage, p.UserID)
	}
	d, err := decimal.NewFromString(*p.Percentage)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed percentage %q", ErrInvalidSplit, *p.Percentage)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s", ErrNegativePercentage, p.UserID)
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: percentage %q is finer than 0.01%%", ErrInvalidSplit, *p.Percentage)
	}
	return scaled.IntPart(), nil
}
