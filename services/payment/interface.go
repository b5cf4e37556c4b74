package payment

import "context"

// RefundResult reports the outcome of a refund request.
type RefundResult struct {
	RefundRef string
	Status    string
}

// PaymentProcessor is the contract to the payment collaborator. The
// booking engine computes refund amounts itself (per the cancellation
// policy) and hands them here; this layer never derives money.
type PaymentProcessor interface {
	// CreateIntent registers a charge intent for amount (major currency
	// units) and returns its reference. idempotencyKey dedupes retries.
	CreateIntent(ctx context.Context, amount float64, currency, idempotencyKey string) (string, error)
	// Refund returns amount against a previously created intent.
	Refund(ctx context.Context, intentRef string, amount float64) (RefundResult, error)
}
