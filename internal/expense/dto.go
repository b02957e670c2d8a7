package expense

import (
	"github.com/tallyhq/tally/internal/ledger"
)

// Participant is one entry of an expense request. Percentage and Amount are
// decimal strings; which one is required depends on the split type.
type Participant struct {
	UserID     string  `json:"user_id" validate:"required"`
	Percentage *string `json:"percentage,omitempty"`
	Amount     *string `json:"amount,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense. Either
// participants or group_id must be given; with only group_id the group's
// member list is used, in join order.
type CreateExpenseRequest struct {
	Description  string         `json:"description" validate:"required,min=1,max=255"`
	Amount       string         `json:"amount" validate:"required"`
	SplitType    string         `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	GroupID      *string        `json:"group_id,omitempty"`
	Participants []*Participant `json:"participants,omitempty"`
}

// ShareResponse represents one participant's share of an expense
type ShareResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Amount      string           `json:"amount"`
	PayerID     string           `json:"payer_id"`
	SplitType   string           `json:"split_type"`
	Shares      []*ShareResponse `json:"shares"`
	CreatedAt   string           `json:"created_at"`
}

// ToResponse converts a ledger expense record to an ExpenseResponse DTO
func ToResponse(rec *ledger.Record) *ExpenseResponse {
	shares := make([]*ShareResponse, len(rec.Shares))
	for i, sh := range rec.Shares {
		shares[i] = &ShareResponse{UserID: sh.UserID, Amount: sh.Amount.String()}
	}
	return &ExpenseResponse{
		ID:          rec.ID,
		Description: rec.Description,
		Amount:      rec.Total.String(),
		PayerID:     rec.PayerID,
		SplitType:   rec.Policy,
		Shares:      shares,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
