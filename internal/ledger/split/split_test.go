package split

import (
	"errors"
	"testing"

	"github.com/tallyhq/tally/internal/money"
)

func strPtr(s string) *string { return &s }

func amtPtr(v int64) *money.Money {
	m := money.FromMinorUnits(v)
	return &m
}

func inputs(ids ...string) []Input {
	out := make([]Input, len(ids))
	for i, id := range ids {
		out[i] = Input{UserID: id}
	}
	return out
}

func sumShares(t *testing.T, shares []Share) money.Money {
	t.Helper()
	var sum money.Money
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	for _, typ := range []Type{TypeEqual, TypePercentage, TypeExact} {
		s, err := f.Create(typ)
		if err != nil {
			t.Fatalf("Create(%s): %v", typ, err)
		}
		if s.Type() != typ {
			t.Errorf("Create(%s).Type() = %s", typ, s.Type())
		}
	}
	if _, err := f.CreateFromString("RANDOM"); !errors.Is(err, ErrInvalidSplit) {
		t.Errorf("CreateFromString(RANDOM) error = %v, want ErrInvalidSplit", err)
	}
}

func TestEqualSplit(t *testing.T) {
	s := &EqualStrategy{}

	t.Run("divides evenly", func(t *testing.T) {
		shares, err := s.Compute(money.FromMinorUnits(9000), inputs("U001", "U002", "U003"))
		if err != nil {
			t.Fatal(err)
		}
		for i, want := range []int64{3000, 3000, 3000} {
			if shares[i].Amount.MinorUnits() != want {
				t.Errorf("share[%d] = %d, want %d", i, shares[i].Amount, want)
			}
		}
	})

	t.Run("remainder goes to earliest participants", func(t *testing.T) {
		shares, err := s.Compute(money.FromMinorUnits(10000), inputs("U001", "U002", "U003"))
		if err != nil {
			t.Fatal(err)
		}
		want := []int64{3334, 3333, 3333}
		for i := range shares {
			if shares[i].Amount.MinorUnits() != want[i] {
				t.Errorf("share[%d] = %d, want %d", i, shares[i].Amount, want[i])
			}
		}
		if sum := sumShares(t, shares); sum.MinorUnits() != 10000 {
			t.Errorf("shares sum to %d, want 10000", sum)
		}
	})

	t.Run("single participant gets everything", func(t *testing.T) {
		shares, err := s.Compute(money.FromMinorUnits(101), inputs("U001"))
		if err != nil {
			t.Fatal(err)
		}
		if shares[0].Amount.MinorUnits() != 101 {
			t.Errorf("share = %d, want 101", shares[0].Amount)
		}
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		if _, err := s.Compute(money.FromMinorUnits(100), nil); !errors.Is(err, ErrNoParticipants) {
			t.Errorf("empty participants error = %v", err)
		}
		if _, err := s.Compute(money.FromMinorUnits(0), inputs("U001")); !errors.Is(err, money.ErrInvalidAmount) {
			t.Errorf("zero total error = %v", err)
		}
		if _, err := s.Compute(money.FromMinorUnits(-100), inputs("U001")); !errors.Is(err, money.ErrInvalidAmount) {
			t.Errorf("negative total error = %v", err)
		}
		if _, err := s.Compute(money.FromMinorUnits(100), inputs("U001", "U001")); !errors.Is(err, ErrDuplicateParticipant) {
			t.Errorf("duplicate participant error = %v", err)
		}
	})
}

func TestPercentageSplit(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("exact sum with largest remainder absorbing rounding", func(t *testing.T) {
		parts := []Input{
			{UserID: "U001", Percentage: strPtr("34")},
			{UserID: "U002", Percentage: strPtr("33")},
			{UserID: "U003", Percentage: strPtr("33")},
		}
		shares, err := s.Compute(money.FromMinorUnits(10000), parts)
		if err != nil {
			t.Fatal(err)
		}
		if sum := sumShares(t, shares); sum.MinorUnits() != 10000 {
			t.Fatalf("shares sum to %d, want 10000", sum)
		}
		if shares[0].Amount.MinorUnits() != 3400 {
			t.Errorf("U001 share = %d, want 3400", shares[0].Amount)
		}
	})

	t.Run("fractional percentages", func(t *testing.T) {
		parts := []Input{
			{UserID: "U001", Percentage: strPtr("33.33")},
			{UserID: "U002", Percentage: strPtr("33.33")},
			{UserID: "U003", Percentage: strPtr("33.34")},
		}
		shares, err := s.Compute(money.FromMinorUnits(100), parts)
		if err != nil {
			t.Fatal(err)
		}
		if sum := sumShares(t, shares); sum.MinorUnits() != 100 {
			t.Errorf("shares sum to %d, want 100", sum)
		}
	})

	t.Run("rejects sums away from 100", func(t *testing.T) {
		parts := []Input{
			{UserID: "U001", Percentage: strPtr("50")},
			{UserID: "U002", Percentage: strPtr("49")},
		}
		if _, err := s.Compute(money.FromMinorUnits(100), parts); !errors.Is(err, ErrPercentageSum) {
			t.Errorf("99%% error = %v, want ErrPercentageSum", err)
		}
	})

	t.Run("rejects bad payloads", func(t *testing.T) {
		cases := []struct {
			name  string
			parts []Input
			want  error
		}{
			{"missing percentage", []Input{{UserID: "U001"}}, ErrMissingPercentage},
			{"negative percentage", []Input{
				{UserID: "U001", Percentage: strPtr("-10")},
				{UserID: "U002", Percentage: strPtr("110")},
			}, ErrNegativePercentage},
			{"malformed percentage", []Input{{UserID: "U001", Percentage: strPtr("ten")}}, ErrInvalidSplit},
			{"sub-basis-point percentage", []Input{
				{UserID: "U001", Percentage: strPtr("33.333")},
				{UserID: "U002", Percentage: strPtr("66.667")},
			}, ErrInvalidSplit},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := s.Compute(money.FromMinorUnits(100), tc.parts); !errors.Is(err, tc.want) {
					t.Errorf("error = %v, want %v", err, tc.want)
				}
			})
		}
	})
}

func TestExactSplit(t *testing.T) {
	s := &ExactStrategy{}

	t.Run("passes amounts through in order", func(t *testing.T) {
		parts := []Input{
			{UserID: "U001", Amount: amtPtr(7000)},
			{UserID: "U002", Amount: amtPtr(2000)},
			{UserID: "U003", Amount: amtPtr(1000)},
		}
		shares, err := s.Compute(money.FromMinorUnits(10000), parts)
		if err != nil {
			t.Fatal(err)
		}
		for i, want := range []int64{7000, 2000, 1000} {
			if shares[i].UserID != parts[i].UserID || shares[i].Amount.MinorUnits() != want {
				t.Errorf("share[%d] = %+v, want %s/%d", i, shares[i], parts[i].UserID, want)
			}
		}
	})

	t.Run("rejects sum mismatch", func(t *testing.T) {
		parts := []Input{
			{UserID: "U001", Amount: amtPtr(5000)},
			{UserID: "U002", Amount: amtPtr(4999)},
		}
		if _, err := s.Compute(money.FromMinorUnits(10000), parts); !errors.Is(err, ErrExactAmountSum) {
			t.Errorf("9999 vs 10000 error = %v, want ErrExactAmountSum", err)
		}
	})

	t.Run("rejects missing or negative amounts", func(t *testing.T) {
		if _, err := s.Compute(money.FromMinorUnits(100), []Input{{UserID: "U001"}}); !errors.Is(err, ErrMissingExactAmount) {
			t.Errorf("missing amount error = %v", err)
		}
		parts := []Input{
			{UserID: "U001", Amount: amtPtr(-100)},
			{UserID: "U002", Amount: amtPtr(200)},
		}
		if _, err := s.Compute(money.FromMinorUnits(100), parts); !errors.Is(err, ErrNegativeExactAmount) {
			t.Errorf("negative amount error = %v", err)
		}
	})
}
