package balance

// TotalPositionResponse is a user's aggregate position: positive means the
// user is owed money overall
type TotalPositionResponse struct {
	UserID  string `json:"user_id"`
	Amount  string `json:"amount"`
	Message string `json:"message"`
}

// PositionResponse is one line of a user's itemized breakdown
type PositionResponse struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	Message string `json:"message"`
}

// PairResponse is one nonzero pairwise balance for the global audit view:
// amount is what user_b owes user_a
type PairResponse struct {
	UserA  string `json:"user_a"`
	UserB  string `json:"user_b"`
	Amount string `json:"amount"`
}
