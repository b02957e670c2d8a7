package group

import "time"

// Group represents a set of users who share expenses. Its member list can
// stand in for an expense's participant list.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	// Populated on detail queries
	MemberIDs []string `json:"member_ids,omitempty"`
}
