package main

// WorkerMessage is the payload sent from API -> SQS -> Worker.
type WorkerMessage struct {
	OrderID       int64  `json:"order_id,string"`
	PaymentID     string `json:"payment_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
