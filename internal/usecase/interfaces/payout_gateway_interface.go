package interfaces

import (
	"carwash_payouts/internal/domain/entities"
	"context"
)

// IPayoutGateway abstracts the external funds-transfer provider (e.g. Mercado Pago).
//
// Disburse is only called for approved requests. It returns the provider's
// reference so the paid request can be traced back to the transfer.
type IPayoutGateway interface {
	Disburse(ctx context.Context, p entities.PaymentRequest) (providerReference string, err error)
}
