package payments

import (
	"context"

	"github.com/google/uuid"
)

// OfflineGateway approves every charge with a generated payment id.
// Used for local runs when no provider endpoint is configured.
type OfflineGateway struct{}

// NewOfflineGateway returns the local auto-approving gateway.
func NewOfflineGateway() *OfflineGateway {
	return &OfflineGateway{}
}

func (g *OfflineGateway) Charge(_ context.Context, _ ChargeRequest) (*Charge, error) {
	return &Charge{
		PaymentID: "pay_" + uuid.NewString(),
		Method:    "offline",
	}, nil
}
