package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/ledger/split"
	"github.com/tallyhq/tally/internal/money"
)

type fakeUsers map[string]bool

func (f fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

type fakeGroups map[string][]string

func (f fakeGroups) MemberIDs(_ context.Context, id string) ([]string, error) {
	members, ok := f[id]
	if !ok {
		return nil, errors.New("group not found")
	}
	return members, nil
}

type fakeSnapshots struct {
	saved int
	err   error
}

func (f *fakeSnapshots) Save(_ context.Context, _ *ledger.Snapshot) error {
	f.saved++
	return f.err
}

func newTestService(users fakeUsers, groups fakeGroups) (*Service, *ledger.Ledger, *fakeSnapshots) {
	l := ledger.New()
	snaps := &fakeSnapshots{}
	return NewService(l, split.NewFactory(), users, groups, snaps), l, snaps
}

func TestCreateEqualExpense(t *testing.T) {
	users := fakeUsers{"U001": true, "U002": true, "U003": true}
	svc, l, snaps := newTestService(users, nil)

	req := &CreateExpenseRequest{
		Description: "Dinner",
		Amount:      "90.00",
		SplitType:   "EQUAL",
		Participants: []*Participant{
			{UserID: "U001"}, {UserID: "U002"}, {UserID: "U003"},
		},
	}
	rec, err := svc.Create(context.Background(), "U001", req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Total.MinorUnits() != 9000 || len(rec.Shares) != 3 {
		t.Errorf("record = %+v", rec)
	}

	if got, err := l.BalanceBetween("U001", "U002"); err != nil || got.MinorUnits() != 3000 {
		t.Errorf("U002 owes U001 %d, %v; want 3000", got, err)
	}
	if snaps.saved != 1 {
		t.Errorf("snapshot saved %d times, want 1", snaps.saved)
	}
}

func TestCreateUsesGroupMembers(t *testing.T) {
	users := fakeUsers{"U001": true, "U002": true}
	groups := fakeGroups{"G001": {"U001", "U002"}}
	svc, l, _ := newTestService(users, groups)

	gid := "G001"
	req := &CreateExpenseRequest{
		Description: "Groceries",
		Amount:      "10.00",
		SplitType:   "EQUAL",
		GroupID:     &gid,
	}
	if _, err := svc.Create(context.Background(), "U001", req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got, _ := l.BalanceBetween("U001", "U002"); got.MinorUnits() != 500 {
		t.Errorf("U002 owes U001 %d, want 500", got)
	}
}

func TestCreateValidation(t *testing.T) {
	users := fakeUsers{"U001": true, "U002": true}
	parts := []*Participant{{UserID: "U001"}, {UserID: "U002"}}

	tests := []struct {
		name string
		req  *CreateExpenseRequest
		want error
	}{
		{
			"malformed amount",
			&CreateExpenseRequest{Description: "x", Amount: "ninety", SplitType: "EQUAL", Participants: parts},
			money.ErrInvalidAmount,
		},
		{
			"non-positive amount",
			&CreateExpenseRequest{Description: "x", Amount: "0.00", SplitType: "EQUAL", Participants: parts},
			money.ErrInvalidAmount,
		},
		{
			"unknown split type",
			&CreateExpenseRequest{Description: "x", Amount: "10", SplitType: "WEIGHTED", Participants: parts},
			split.ErrInvalidSplit,
		},
		{
			"no participants and no group",
			&CreateExpenseRequest{Description: "x", Amount: "10", SplitType: "EQUAL"},
			ErrNoParticipants,
		},
		{
			"unknown participant",
			&CreateExpenseRequest{Description: "x", Amount: "10", SplitType: "EQUAL",
				Participants: []*Participant{{UserID: "U001"}, {UserID: "ghost"}}},
			ledger.ErrUnknownParticipant,
		},
		{
			"exact amounts off by one cent",
			&CreateExpenseRequest{Description: "x", Amount: "100.00", SplitType: "EXACT",
				Participants: []*Participant{
					{UserID: "U001", Amount: strPtr("50.00")},
					{UserID: "U002", Amount: strPtr("49.99")},
				}},
			split.ErrExactAmountSum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, l, snaps := newTestService(users, nil)
			if _, err := svc.Create(context.Background(), "U001", tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("Create error = %v, want %v", err, tt.want)
			}
			// Failed creation must leave no partial mutation behind.
			if pairs := l.AllNonzeroPairs(); len(pairs) != 0 {
				t.Errorf("ledger mutated on failure: %+v", pairs)
			}
			if snaps.saved != 0 {
				t.Errorf("snapshot saved on failure")
			}
		})
	}
}

func TestCreateUnknownPayer(t *testing.T) {
	svc, _, _ := newTestService(fakeUsers{"U002": true}, nil)
	req := &CreateExpenseRequest{
		Description:  "x",
		Amount:       "10",
		SplitType:    "EQUAL",
		Participants: []*Participant{{UserID: "U002"}},
	}
	if _, err := svc.Create(context.Background(), "ghost", req); !errors.Is(err, ledger.ErrUnknownParticipant) {
		t.Errorf("Create error = %v, want ErrUnknownParticipant", err)
	}
}

func TestGetAndList(t *testing.T) {
	users := fakeUsers{"U001": true, "U002": true}
	svc, _, _ := newTestService(users, nil)

	rec, err := svc.Create(context.Background(), "U001", &CreateExpenseRequest{
		Description:  "Taxi",
		Amount:       "8.00",
		SplitType:    "EQUAL",
		Participants: []*Participant{{UserID: "U001"}, {UserID: "U002"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetByID(rec.ID)
	if err != nil || got.Description != "Taxi" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
	if _, err := svc.GetByID("missing"); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("GetByID(missing) error = %v", err)
	}
	if list := svc.ListByUser("U002"); len(list) != 1 {
		t.Errorf("ListByUser = %d records, want 1", len(list))
	}
}

func strPtr(s string) *string { return &s }
