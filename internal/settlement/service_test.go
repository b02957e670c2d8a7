package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/money"
)

type fakeAudit struct {
	created []*Settlement
}

func (f *fakeAudit) Create(_ context.Context, s *Settlement) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeAudit) GetByID(_ context.Context, id string) (*Settlement, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeAudit) ListByUser(_ context.Context, userID string, _, _ int) ([]*Settlement, int, error) {
	var out []*Settlement
	for _, s := range f.created {
		if s.PayerID == userID || s.PayeeID == userID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

type fakeSnapshots struct {
	saved int
}

func (f *fakeSnapshots) Save(_ context.Context, _ *ledger.Snapshot) error {
	f.saved++
	return nil
}

// newTestLedger seeds a ledger where U002 owes U001 3000 and U003 owes
// U001 3000.
func newTestLedger() *ledger.Ledger {
	l := ledger.New()
	l.RecordExpense("U001", "Dinner", money.FromMinorUnits(9000), []ledger.Share{
		{UserID: "U001", Amount: money.FromMinorUnits(3000)},
		{UserID: "U002", Amount: money.FromMinorUnits(3000)},
		{UserID: "U003", Amount: money.FromMinorUnits(3000)},
	}, "EQUAL")
	return l
}

func TestSettleToZeroPrunesPair(t *testing.T) {
	l := newTestLedger()
	audit := &fakeAudit{}
	snaps := &fakeSnapshots{}
	svc := NewService(l, audit, snaps)

	stl, err := svc.Settle(context.Background(), "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "30.00"})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if stl.Amount.MinorUnits() != 3000 || stl.PayerID != "U002" || stl.PayeeID != "U001" {
		t.Errorf("settlement = %+v", stl)
	}

	if got, _ := l.BalanceBetween("U001", "U002"); !got.IsZero() {
		t.Errorf("pair balance = %d, want 0", got)
	}
	if got, _ := l.BalanceBetween("U001", "U003"); got.MinorUnits() != 3000 {
		t.Errorf("U003 balance disturbed: %d", got)
	}
	if len(l.AllNonzeroPairs()) != 1 {
		t.Error("settled pair not pruned")
	}
	if len(audit.created) != 1 || snaps.saved != 1 {
		t.Errorf("audit = %d rows, snapshots = %d; want 1 and 1", len(audit.created), snaps.saved)
	}

	net := func(u string) int64 {
		v, err := l.NetBalance(u)
		if err != nil {
			t.Fatalf("NetBalance(%s): %v", u, err)
		}
		return v.MinorUnits()
	}
	if net("U001") != 3000 || net("U002") != 0 || net("U003") != -3000 {
		t.Errorf("net balances = %d/%d/%d", net("U001"), net("U002"), net("U003"))
	}
}

func TestSettleOverpaymentFlipsDirection(t *testing.T) {
	l := newTestLedger()
	svc := NewService(l, &fakeAudit{}, &fakeSnapshots{})

	if _, err := svc.Settle(context.Background(), "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "50.00"}); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	// U002 paid 5000 against a 3000 debt: U001 now owes U002 2000.
	if got, _ := l.BalanceBetween("U002", "U001"); got.MinorUnits() != 2000 {
		t.Errorf("U001 owes U002 %d, want 2000", got)
	}
}

func TestSettleValidation(t *testing.T) {
	tests := []struct {
		name    string
		payerID string
		req     *CreateSettlementRequest
		want    error
	}{
		{"self settlement", "U001", &CreateSettlementRequest{PayeeID: "U001", Amount: "10"}, ErrInvalidSettlement},
		{"zero amount", "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "0.00"}, ErrInvalidSettlement},
		{"negative amount", "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "-5.00"}, ErrInvalidSettlement},
		{"malformed amount", "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "ten"}, ErrInvalidSettlement},
		{"unknown payee", "U002", &CreateSettlementRequest{PayeeID: "ghost", Amount: "10"}, ledger.ErrUnknownParticipant},
		{"unknown payer", "ghost", &CreateSettlementRequest{PayeeID: "U001", Amount: "10"}, ledger.ErrUnknownParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			audit := &fakeAudit{}
			snaps := &fakeSnapshots{}
			svc := NewService(l, audit, snaps)

			if _, err := svc.Settle(context.Background(), tt.payerID, tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("Settle error = %v, want %v", err, tt.want)
			}
			// No partial mutation on failure.
			if got, _ := l.BalanceBetween("U001", "U002"); got.MinorUnits() != 3000 {
				t.Errorf("pair balance = %d, want 3000 untouched", got)
			}
			if len(audit.created) != 0 || snaps.saved != 0 {
				t.Error("audit or snapshot written on failure")
			}
		})
	}
}

func TestSettleExactThenAgainFails(t *testing.T) {
	l := newTestLedger()
	svc := NewService(l, &fakeAudit{}, &fakeSnapshots{})
	ctx := context.Background()

	if _, err := svc.Settle(ctx, "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "30.00"}); err != nil {
		t.Fatal(err)
	}
	// A follow-up "settle nothing" attempt is invalid, not a silent no-op.
	if _, err := svc.Settle(ctx, "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "0"}); !errors.Is(err, ErrInvalidSettlement) {
		t.Errorf("zero settle error = %v, want ErrInvalidSettlement", err)
	}
}

func TestGetAndList(t *testing.T) {
	l := newTestLedger()
	svc := NewService(l, &fakeAudit{}, &fakeSnapshots{})
	ctx := context.Background()

	stl, err := svc.Settle(ctx, "U002", &CreateSettlementRequest{PayeeID: "U001", Amount: "10.00"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByID(ctx, stl.ID)
	if err != nil || got.ID != stl.ID {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, ErrSettlementNotFound) {
		t.Errorf("GetByID(missing) error = %v", err)
	}

	list, total, err := svc.ListByUser(ctx, "U001", 1, 20)
	if err != nil || total != 1 || len(list) != 1 {
		t.Errorf("ListByUser = %d/%d, %v", len(list), total, err)
	}
}
