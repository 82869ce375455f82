package transactions

import "time"

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDeclined Status = "DECLINED"
	StatusError    Status = "ERROR"
)

// Terminal reports whether no further status transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDeclined || s == StatusError
}

// Transaction is the client's copy of a backend transaction. It is created
// server-side in response to a checkout submission and superseded on each
// status update.
type Transaction struct {
	ID            string    `json:"id"`
	Status        Status    `json:"status"`
	AmountInCents int       `json:"amountInCents"`
	Currency      string    `json:"currency"`
	ProductID     string    `json:"productId"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	CardBrand     string    `json:"card_brand,omitempty"`
	CardLast4     string    `json:"card_last4,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// CheckoutCard is the card block of a checkout request.
type CheckoutCard struct {
	Number     string `json:"number"`
	CVC        string `json:"cvc"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CardHolder string `json:"card_holder"`
}

// CheckoutRequest is submitted once per cart line item, not once per cart.
// A multi-item cart therefore produces N independent backend transactions.
type CheckoutRequest struct {
	ProductID     string       `json:"productId"`
	Email         string       `json:"email"`
	AmountInCents int          `json:"amountInCents"`
	Installments  int          `json:"installments"`
	Card          CheckoutCard `json:"card"`
}
