package payment

import (
	"context"
	"regexp"
	"testing"

	"mayhouse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDummyProcessorIDs(t *testing.T) {
	p := NewProcessor("dummy", "")
	_, isDummy := p.(*DummyProcessor)
	require.True(t, isDummy)

	pay, err := p.Charge(context.Background(), models.PaymentRequest{UserID: "u1", Amount: 2400, Currency: "INR"})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^dummy_[0-9a-f]{16}$`), pay.PaymentID)
	assert.Regexp(t, regexp.MustCompile(`^TXN_[0-9A-F]{12}$`), pay.TransactionID)
	assert.Equal(t, models.PaymentCompleted, pay.Status)
	assert.Equal(t, "dummy", pay.PaymentMethod)
	assert.Equal(t, 2400.0, pay.Amount)
}

func TestStripeNeedsKey(t *testing.T) {
	_, isDummy := NewProcessor("stripe", "").(*DummyProcessor)
	assert.True(t, isDummy)
	_, isStripe := NewProcessor("Stripe", "sk_test_123").(*StripeProcessor)
	assert.True(t, isStripe)
}

func TestStripeRequiresPaymentMethod(t *testing.T) {
	_, err := StripeProcessor{}.Charge(context.Background(), models.PaymentRequest{Amount: 10, Currency: "INR"})
	assert.ErrorIs(t, err, ErrDeclined)
}
