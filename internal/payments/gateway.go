package payments

import (
	"context"
	"fmt"
)

// ChargeRequest is everything the provider needs to take a payment.
// Amount is in the currency's minor unit (paise for INR).
type ChargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Receipt  string `json:"receipt,omitempty"`
}

// Charge is a successful payment.
type Charge struct {
	PaymentID string `json:"payment_id"`
	Method    string `json:"method,omitempty"`
}

// Error is the structured failure a provider reports for a declined
// or aborted payment.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("payment failed: %s (%s): %s", e.Code, e.Reason, e.Description)
}

// Gateway is the checkout collaborator boundary. The stores know
// nothing about the provider beyond this call: an amount goes out, a
// payment id or a structured failure comes back.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}
