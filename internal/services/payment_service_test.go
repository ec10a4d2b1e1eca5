// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"
)

func settledIntent(productID, buyer string) *stripe.PaymentIntent {
	return &stripe.PaymentIntent{
		ID:     "pi_test_123",
		Status: stripe.PaymentIntentStatusSucceeded,
		Metadata: map[string]string{
			"product_id":    productID,
			"buyer_address": buyer,
		},
	}
}

func TestCheckSettledIntent(t *testing.T) {
	req := &ConfirmCardPurchaseRequest{
		PaymentIntentID: "pi_test_123",
		ProductID:       "product-2",
		BuyerAddress:    "0xCardBuyerWallet",
	}

	assert.NoError(t, checkSettledIntent(settledIntent("product-2", "0xCardBuyerWallet"), req))
}

func TestCheckSettledIntentRequiresSuccess(t *testing.T) {
	intent := settledIntent("product-2", "0xCardBuyerWallet")
	intent.Status = stripe.PaymentIntentStatusRequiresPaymentMethod

	err := checkSettledIntent(intent, &ConfirmCardPurchaseRequest{
		PaymentIntentID: "pi_test_123",
		ProductID:       "product-2",
		BuyerAddress:    "0xCardBuyerWallet",
	})
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCheckSettledIntentRejectsDifferentProduct(t *testing.T) {
	err := checkSettledIntent(settledIntent("product-2", "0xCardBuyerWallet"), &ConfirmCardPurchaseRequest{
		PaymentIntentID: "pi_test_123",
		ProductID:       "product-3",
		BuyerAddress:    "0xCardBuyerWallet",
	})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCheckSettledIntentRejectsDifferentBuyer(t *testing.T) {
	// A leaked intent ID must not let another wallet redeem the purchase.
	err := checkSettledIntent(settledIntent("product-2", "0xCardBuyerWallet"), &ConfirmCardPurchaseRequest{
		PaymentIntentID: "pi_test_123",
		ProductID:       "product-2",
		BuyerAddress:    "0xOpportunistWallet",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckSettledIntentBuyerCaseInsensitive(t *testing.T) {
	err := checkSettledIntent(settledIntent("product-2", "0xCardBuyerWallet"), &ConfirmCardPurchaseRequest{
		PaymentIntentID: "pi_test_123",
		ProductID:       "product-2",
		BuyerAddress:    "0xCARDBUYERWALLET",
	})
	assert.NoError(t, err)
}
