package interfaces

import "context"

// Action names a privileged operation checked by IAuthorizer.
type Action string

const (
	ActionApprovePaymentRequest Action = "payment_request:approve"
	ActionRejectPaymentRequest  Action = "payment_request:reject"
	ActionPayPaymentRequest     Action = "payment_request:pay"
	ActionCreditEarnings        Action = "earnings:credit"
)

// IAuthorizer delegates role checks to the surrounding identity system.

type IAuthorizer interface {
	IsAuthorized(ctx context.Context, userID string, action Action) (bool, error)
}
