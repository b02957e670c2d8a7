package user

import "time"

// User represents a user in the system. The ID is the opaque participant
// token the ledger tracks balances under.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
