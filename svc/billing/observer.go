package billing

import "context"

// Observer receives billing events, usually to export metrics.
type Observer interface {
	ActivationCommitted(ctx context.Context, planID, branch string)
	PaymentRejected(ctx context.Context, reason string)
	OrdersExpired(ctx context.Context, n int64)
}

// Rejection reasons passed to Observer.PaymentRejected.
const (
	RejectOrderMismatch   = "order_mismatch"
	RejectSignature       = "signature_invalid"
	RejectReplayedRef     = "replayed_reference"
	RejectOrderNotPayable = "order_not_payable"
)

type noopObserver struct{}

func (noopObserver) ActivationCommitted(context.Context, string, string) {}
func (noopObserver) PaymentRejected(context.Context, string)             {}
func (noopObserver) OrdersExpired(context.Context, int64)                {}
