package payment

import (
	"context"
	"fmt"

	"busbook/models"
	"busbook/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// Intent is the client-facing slice of a payment provider intent.
type Intent struct {
	ID           string       `json:"id"`
	ClientSecret string       `json:"client_secret"`
	Amount       models.Money `json:"amount"`
	Status       string       `json:"status"`
}

// PaymentService creates charges for card payments. Wallet payments never
// touch it.
type PaymentService interface {
	CreateIntent(ctx context.Context, userID string, amount models.Money, description string) (*Intent, error)
}

// StripePaymentService implements PaymentService on Stripe payment intents.
// Amounts are already in the currency's smallest unit, which is what Stripe
// expects.
type StripePaymentService struct {
	Currency string
}

// NewStripePaymentService constructs a Stripe-backed payment service charging
// in INR.
func NewStripePaymentService() *StripePaymentService {
	return &StripePaymentService{Currency: "inr"}
}

func (s *StripePaymentService) CreateIntent(ctx context.Context, userID string, amount models.Money, description string) (*Intent, error) {
	logger := utils.GetLogger()

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(amount)),
		Currency:    stripe.String(s.Currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("error creating payment intent: %w", err)
	}

	logger.Info("payment intent created",
		zap.String("intentID", pi.ID),
		zap.String("userID", userID),
		zap.Int64("amount", int64(amount)),
	)
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       amount,
		Status:       string(pi.Status),
	}, nil
}
