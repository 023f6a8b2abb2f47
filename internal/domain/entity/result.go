package entity

// Credentials authenticate one portal session. They are injected per batch
// and must never be logged or persisted.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Present() bool {
	return c.Username != "" && c.Password != ""
}

// Result is the outcome of one ID lookup. Status and DebtCounsellor are nil
// when the portal had no matching record or the field could not be extracted;
// that is a normal outcome, not an error.
type Result struct {
	IDNumber       string  `json:"id_number"`
	Status         *string `json:"status"`
	DebtCounsellor *string `json:"debt_counsellor"`
}

// Resolved reports whether both fields were extracted.
func (r Result) Resolved() bool {
	return r.Status != nil && r.DebtCounsellor != nil
}
