package ledger

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/money"
)

// ErrUnknownParticipant reports an operation on an id the ledger has never
// been introduced to. Expenses and imports introduce ids; settlements and
// balance queries require them to already be known.
var ErrUnknownParticipant = errors.New("unknown participant")

// Share is one participant's portion of a recorded expense.
type Share struct {
	UserID string      `json:"user_id"`
	Amount money.Money `json:"amount"`
}

// Record is the journal entry for one recorded expense. Shares keep the
// order the split was computed in, which fixes where leftover minor units
// landed.
type Record struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Total       money.Money `json:"total"`
	PayerID     string      `json:"payer_id"`
	Shares      []Share     `json:"shares"`
	Policy      string      `json:"policy"`
	CreatedAt   time.Time   `json:"created_at"`
}

// PairBalance is one nonzero pairwise entry. First and Second follow the
// canonical PairKey order; a positive Amount means Second owes First. The
// direction convention is just that, a convention: callers read either side
// by negating.
type PairBalance struct {
	First  string      `json:"user_a"`
	Second string      `json:"user_b"`
	Amount money.Money `json:"amount"`
}

// Counterparty is one line of a user's itemized breakdown. A positive
// Amount means the counterparty owes the queried user.
type Counterparty struct {
	UserID string
	Amount money.Money
}

// Ledger is the single owner of every pairwise balance. A pair with a zero
// net balance is absent from the map, never stored as an explicit zero, so
// "who owes whom" stays O(nonzero pairs). Mutations take the write lock and
// apply all their per-pair updates under it, so a reader never observes a
// partially-applied expense.
type Ledger struct {
	mu       sync.RWMutex
	balances map[PairKey]money.Money
	known    map[string]struct{}
	journal  []Record
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[PairKey]money.Money),
		known:    make(map[string]struct{}),
	}
}

// owedLocked returns how much debtor currently owes creditor. Callers hold mu.
func (l *Ledger) owedLocked(debtor, creditor string) money.Money {
	k := PairKeyOf(debtor, creditor)
	v := l.balances[k]
	if debtor == k.Second {
		return v
	}
	return v.Neg()
}

// addOwedLocked increases what debtor owes creditor by amount, removing the
// entry the moment it lands on exactly zero. Callers hold mu for writing.
func (l *Ledger) addOwedLocked(debtor, creditor string, amount money.Money) {
	k := PairKeyOf(debtor, creditor)
	delta := amount
	if debtor == k.First {
		delta = amount.Neg()
	}
	v := l.balances[k].Add(delta)
	if v.IsZero() {
		delete(l.balances, k)
	} else {
		l.balances[k] = v
	}
}

// RecordExpense folds an expense's shares into the pairwise balances and
// journals it. Shares come from a split computation, so they sum exactly to
// the total and carry no duplicates; given that, this operation cannot
// fail. The payer's own share is a no-op. Both the payer and every share
// holder become known participants.
func (l *Ledger) RecordExpense(payerID, description string, total money.Money, shares []Share, policy string) *Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.known[payerID] = struct{}{}
	for _, sh := range shares {
		l.known[sh.UserID] = struct{}{}
		if sh.UserID == payerID {
			continue
		}
		l.addOwedLocked(sh.UserID, payerID, sh.Amount)
	}

	rec := Record{
		ID:          uuid.NewString(),
		Description: description,
		Total:       total,
		PayerID:     payerID,
		Shares:      append([]Share(nil), shares...),
		Policy:      policy,
		CreatedAt:   time.Now().UTC(),
	}
	l.journal = append(l.journal, rec)
	return &rec
}

// AdjustPair reduces what fromID owes toID by amount. A negative amount
// increases the debt instead; paying past zero flips the direction, and
// landing on exactly zero removes the entry. Both ids must already be known.
func (l *Ledger) AdjustPair(fromID, toID string, amount money.Money) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range []string{fromID, toID} {
		if _, ok := l.known[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
		}
	}
	l.addOwedLocked(fromID, toID, amount.Neg())
	return nil
}

// NetBalance returns the user's aggregate position across all
// counterparties: positive means the user is owed money overall, negative
// means they owe.
func (l *Ledger) NetBalance(userID string) (money.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.known[userID]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParticipant, userID)
	}
	var total money.Money
	for k, v := range l.balances {
		switch userID {
		case k.First:
			total = total.Add(v)
		case k.Second:
			total = total.Sub(v)
		}
	}
	return total, nil
}

// BalanceBetween returns how much b owes a: positive means b owes a,
// negative means a owes b, zero means the pair is settled. It is
// anti-symmetric by construction: BalanceBetween(a, b) == -BalanceBetween(b, a).
func (l *Ledger) BalanceBetween(a, b string) (money.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, id := range []string{a, b} {
		if _, ok := l.known[id]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
		}
	}
	return l.owedLocked(b, a), nil
}

// Counterparties returns the user's nonzero counterparties ordered by
// counterparty id. The sequence is restartable; each ranging takes a fresh
// consistent snapshot of the ledger.
func (l *Ledger) Counterparties(userID string) (iter.Seq[Counterparty], error) {
	l.mu.RLock()
	_, ok := l.known[userID]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, userID)
	}

	return func(yield func(Counterparty) bool) {
		for _, c := range l.counterpartySnapshot(userID) {
			if !yield(c) {
				return
			}
		}
	}, nil
}

func (l *Ledger) counterpartySnapshot(userID string) []Counterparty {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Counterparty
	for k, v := range l.balances {
		switch userID {
		case k.First:
			out = append(out, Counterparty{UserID: k.Second, Amount: v})
		case k.Second:
			out = append(out, Counterparty{UserID: k.First, Amount: v.Neg()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// AllNonzeroPairs returns every stored pair balance ordered by canonical
// pair key.
func (l *Ledger) AllNonzeroPairs() []PairBalance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pairsLocked()
}

func (l *Ledger) pairsLocked() []PairBalance {
	out := make([]PairBalance, 0, len(l.balances))
	for k, v := range l.balances {
		out = append(out, PairBalance{First: k.First, Second: k.Second, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return PairKey{out[i].First, out[i].Second}.Less(PairKey{out[j].First, out[j].Second})
	})
	return out
}

// Knows reports whether the id has been introduced via an expense, a
// settlement counterparty, or an import.
func (l *Ledger) Knows(userID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.known[userID]
	return ok
}

// Expense returns one journal entry by id.
func (l *Ledger) Expense(id string) (*Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.journal {
		if l.journal[i].ID == id {
			rec := l.journal[i]
			return &rec, true
		}
	}
	return nil, false
}

// ExpensesInvolving returns the journal entries where the user paid or
// holds a share, newest first.
func (l *Ledger) ExpensesInvolving(userID string) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Record
	for _, rec := range l.journal {
		if rec.PayerID == userID {
			out = append(out, rec)
			continue
		}
		for _, sh := range rec.Shares {
			if sh.UserID == userID {
				out = append(out, rec)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
