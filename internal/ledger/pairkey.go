package ledger

// PairKey canonically identifies the relationship between two users: the
// lexicographically smaller id is always First. Debt between two users has
// exactly one entry under this key regardless of direction.
type PairKey struct {
	First  string
	Second string
}

// PairKeyOf builds the canonical key for a and b.
func PairKeyOf(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{First: a, Second: b}
}

// Less orders keys by (First, Second) for deterministic listings.
func (k PairKey) Less(o PairKey) bool {
	if k.First != o.First {
		return k.First < o.First
	}
	return k.Second < o.Second
}
