package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// StripeProcessor implements PaymentProcessor over the Stripe API.
// stripe.Key is set once at startup from config.
type StripeProcessor struct {
	Logger *zap.Logger
}

func NewStripeProcessor(logger *zap.Logger) *StripeProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeProcessor{Logger: logger}
}

func toCents(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount float64, currency, idempotencyKey string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create intent: %w", err)
	}
	p.Logger.Info("stripe: payment intent created",
		zap.String("intent", intent.ID), zap.Float64("amount", amount))
	return intent.ID, nil
}

func (p *StripeProcessor) Refund(ctx context.Context, intentRef string, amount float64) (RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentRef),
		Amount:        stripe.Int64(toCents(amount)),
	}
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return RefundResult{}, fmt.Errorf("stripe: refund intent %s: %w", intentRef, err)
	}
	p.Logger.Info("stripe: refund issued",
		zap.String("intent", intentRef), zap.String("refund", r.ID), zap.Float64("amount", amount))
	return RefundResult{RefundRef: r.ID, Status: string(r.Status)}, nil
}
