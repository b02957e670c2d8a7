package ledger

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tallyhq/tally/internal/money"
)

func TestExportImportRoundTrip(t *testing.T) {
	l := New()
	l.RecordExpense("U001", "Dinner", money.FromMinorUnits(9000),
		shares("U001", 3000, "U002", 3000, "U003", 3000), "EQUAL")
	l.RecordExpense("U002", "Taxi", money.FromMinorUnits(1500), shares("U003", 1500), "EXACT")
	if err := l.AdjustPair("U002", "U001", money.FromMinorUnits(1000)); err != nil {
		t.Fatal(err)
	}

	snap := l.Export()

	restored := New()
	if err := restored.Import(snap); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if !reflect.DeepEqual(restored.AllNonzeroPairs(), l.AllNonzeroPairs()) {
		t.Errorf("pairs after round trip = %+v, want %+v", restored.AllNonzeroPairs(), l.AllNonzeroPairs())
	}
	if !reflect.DeepEqual(restored.Export(), snap) {
		t.Error("re-export does not reproduce the snapshot")
	}
	for _, u := range []string{"U001", "U002", "U003"} {
		if !restored.Knows(u) {
			t.Errorf("restored ledger does not know %s", u)
		}
	}
	checkConservation(t, restored, "U001", "U002", "U003")
}

func TestExportIsDeterministic(t *testing.T) {
	l := New()
	l.RecordExpense("zoe", "A", money.FromMinorUnits(100), shares("mia", 40, "abe", 60), "EXACT")

	if !reflect.DeepEqual(l.Export(), l.Export()) {
		t.Error("two exports of the same state differ")
	}
}

func TestImportRejectsCorruptSnapshots(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
	}{
		{
			"non-canonical pair order",
			&Snapshot{Balances: []PairBalance{{First: "bob", Second: "alice", Amount: money.FromMinorUnits(100)}}},
		},
		{
			"self pair",
			&Snapshot{Balances: []PairBalance{{First: "alice", Second: "alice", Amount: money.FromMinorUnits(100)}}},
		},
		{
			"explicit zero balance",
			&Snapshot{Balances: []PairBalance{{First: "alice", Second: "bob", Amount: 0}}},
		},
		{
			"duplicate pair",
			&Snapshot{Balances: []PairBalance{
				{First: "alice", Second: "bob", Amount: money.FromMinorUnits(100)},
				{First: "alice", Second: "bob", Amount: money.FromMinorUnits(200)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.RecordExpense("x", "keep", money.FromMinorUnits(10), shares("y", 10), "EXACT")

			if err := l.Import(tt.snap); !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("Import error = %v, want ErrCorruptSnapshot", err)
			}
			// Failed import must leave the ledger untouched.
			if got, err := l.BalanceBetween("x", "y"); err != nil || got.MinorUnits() != 10 {
				t.Errorf("state after failed import: %d, %v", got, err)
			}
		})
	}
}

func TestImportEmptySnapshot(t *testing.T) {
	l := New()
	l.RecordExpense("x", "gone", money.FromMinorUnits(10), shares("y", 10), "EXACT")

	if err := l.Import(&Snapshot{}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if pairs := l.AllNonzeroPairs(); len(pairs) != 0 {
		t.Errorf("pairs = %d, want 0", len(pairs))
	}
	if l.Knows("x") {
		t.Error("participants survived an empty import")
	}
}
