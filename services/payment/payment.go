package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"mayhouse/models"
	"mayhouse/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// ErrDeclined is returned when the processor refuses the charge.
var ErrDeclined = errors.New("payment declined")

// Processor charges a traveler for a booking.
type Processor interface {
	Charge(ctx context.Context, req models.PaymentRequest) (*models.Payment, error)
}

// NewProcessor picks the processor named by PAYMENT_PROVIDER.
func NewProcessor(provider, stripeKey string) Processor {
	if strings.EqualFold(provider, "stripe") && stripeKey != "" {
		stripe.Key = stripeKey
		return &StripeProcessor{}
	}
	return &DummyProcessor{}
}

// DummyProcessor approves every charge.
type DummyProcessor struct{}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (DummyProcessor) Charge(_ context.Context, req models.PaymentRequest) (*models.Payment, error) {
	pid, err := randomHex(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment id: %w", err)
	}
	txn, err := randomHex(6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	utils.GetLogger().Info("Dummy payment processed", zap.String("userID", req.UserID), zap.Float64("amount", req.Amount))
	return &models.Payment{
		PaymentID:     "dummy_" + pid,
		TransactionID: "TXN_" + strings.ToUpper(txn),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        models.PaymentCompleted,
		PaymentMethod: "dummy",
		Timestamp:     time.Now().UTC(),
	}, nil
}

// StripeProcessor confirms a PaymentIntent in one call.
type StripeProcessor struct{}

func (StripeProcessor) Charge(ctx context.Context, req models.PaymentRequest) (*models.Payment, error) {
	if req.PaymentMethodID == "" {
		return nil, fmt.Errorf("%w: payment_method_id is required", ErrDeclined)
	}
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(utils.ToPaise(req.Amount)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	if req.Idempotency != "" {
		params.SetIdempotencyKey(req.Idempotency)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
		}
		return nil, fmt.Errorf("stripe payment failed: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent status %s", ErrDeclined, pi.Status)
	}

	txn := pi.ID
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		txn = pi.LatestCharge.ID
	}
	return &models.Payment{
		PaymentID:     pi.ID,
		TransactionID: txn,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(string(pi.Currency)),
		Status:        models.PaymentCompleted,
		PaymentMethod: "card",
		Timestamp:     time.Unix(pi.Created, 0).UTC(),
	}, nil
}
