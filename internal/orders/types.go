package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is stored verbatim on the order; the store is opaque to its
// contents beyond persistence.
type Customer struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PaymentID     string `json:"paymentId,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

// LineItem snapshots a product's name and price at checkout time, so
// the order stays intact when the catalog is later edited or the
// product deleted.
type LineItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is an immutable record of a completed checkout. It is never
// updated or deleted after creation.
type Order struct {
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	Customer Customer        `json:"customer"`
	Items    []LineItem      `json:"items"`
	Total    decimal.Decimal `json:"total"`
}
