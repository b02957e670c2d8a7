package settlement

import (
	"time"

	"github.com/tallyhq/tally/internal/money"
)

// Settlement represents a payment from payer to payee applied against the
// ledger: it pays down what the payer owes the payee. Paying more than is
// owed flips the debt direction.
type Settlement struct {
	ID        string      `json:"id"`
	PayerID   string      `json:"payer_id"`
	PayeeID   string      `json:"payee_id"`
	Amount    money.Money `json:"amount"`
	CreatedAt time.Time   `json:"created_at"`
}
