package settlement

// CreateSettlementRequest represents the request to record a payment from
// the authenticated user to the payee
type CreateSettlementRequest struct {
	PayeeID string `json:"payee_id" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID        string `json:"id"`
	PayerID   string `json:"payer_id"`
	PayeeID   string `json:"payee_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:        s.ID,
		PayerID:   s.PayerID,
		PayeeID:   s.PayeeID,
		Amount:    s.Amount.String(),
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
