package ledger

import (
	"errors"
	"fmt"

	"github.com/tallyhq/tally/internal/money"
)

// ErrCorruptSnapshot reports a snapshot that cannot describe a reachable
// ledger state.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot is the exported durable state: every nonzero pairwise balance
// plus the full expense journal. Export and Import are exact inverses for
// any reachable ledger state.
type Snapshot struct {
	Balances []PairBalance `json:"balances"`
	Expenses []Record      `json:"expenses"`
}

// Export copies the current state into a snapshot. Balances come out in
// canonical pair-key order and expenses in journal order, so equal states
// export byte-identical snapshots.
func (l *Ledger) Export() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Snapshot{
		Balances: l.pairsLocked(),
		Expenses: append([]Record(nil), l.journal...),
	}
}

// Import replaces the ledger's state with the snapshot's. Every id
// mentioned in a balance or expense becomes a known participant. The
// snapshot is validated up front and the ledger is untouched on failure.
func (l *Ledger) Import(snap *Snapshot) error {
	balances := make(map[PairKey]money.Money, len(snap.Balances))
	known := make(map[string]struct{})

	for _, pb := range snap.Balances {
		if pb.First >= pb.Second {
			return fmt.Errorf("%w: pair (%s, %s) is not in canonical order", ErrCorruptSnapshot, pb.First, pb.Second)
		}
		if pb.Amount.IsZero() {
			return fmt.Errorf("%w: pair (%s, %s) has an explicit zero balance", ErrCorruptSnapshot, pb.First, pb.Second)
		}
		k := PairKey{First: pb.First, Second: pb.Second}
		if _, dup := balances[k]; dup {
			return fmt.Errorf("%w: duplicate pair (%s, %s)", ErrCorruptSnapshot, pb.First, pb.Second)
		}
		balances[k] = pb.Amount
		known[pb.First] = struct{}{}
		known[pb.Second] = struct{}{}
	}

	journal := make([]Record, len(snap.Expenses))
	for i, rec := range snap.Expenses {
		journal[i] = rec
		journal[i].Shares = append([]Share(nil), rec.Shares...)
		known[rec.PayerID] = struct{}{}
		for _, sh := range rec.Shares {
			known[sh.UserID] = struct{}{}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances = balances
	l.known = known
	l.journal = journal
	return nil
}
