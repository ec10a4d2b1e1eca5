// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/craftchain/artisan-marketplace/internal/config"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// PaymentService is the card checkout path. Buyers without a crypto wallet
// pay the USD equivalent through Stripe; on confirmation the purchase runs
// through the same pipeline as a wallet buy, settled by a zero-delay
// custodial wallet so the card flow never prompts.
type PaymentService struct {
	cfg      *config.Config
	registry *RegistryService
	nft      *NFTService
	log      *logrus.Entry
}

func NewPaymentService(cfg *config.Config, registry *RegistryService, custodialNFT *NFTService) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		cfg:      cfg,
		registry: registry,
		nft:      custodialNFT,
		log:      logrus.WithField("service", "payment"),
	}
}

type CreatePaymentIntentRequest struct {
	ProductID    string `json:"productId" validate:"required"`
	BuyerAddress string `json:"buyerAddress" validate:"required,wallet_address"`
	ReceiptEmail string `json:"receiptEmail" validate:"omitempty,email"`
}

type PaymentIntentResponse struct {
	ClientSecret string  `json:"clientSecret"`
	PaymentID    string  `json:"paymentId"`
	AmountUSD    float64 `json:"amountUsd"`
	Status       string  `json:"status"`
}

type ConfirmCardPurchaseRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	ProductID       string `json:"productId" validate:"required"`
	BuyerAddress    string `json:"buyerAddress" validate:"required,wallet_address"`
}

// CreatePaymentIntent prices the product in USD at the configured rate,
// plus the platform fee, and opens a Stripe intent for it.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.registry.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.IsSold {
		return nil, ErrNotAvailable
	}

	amountUSD := product.Price * s.cfg.Payment.EthUSDRate
	amountUSD += amountUSD * s.cfg.Payment.PlatformFeePercent / 100
	amountInCents := int64(amountUSD * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("product_id", product.ID)
	params.AddMetadata("buyer_address", req.BuyerAddress)
	params.AddMetadata("price_eth", fmt.Sprintf("%.6f", product.Price))
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe: %v", ErrProvider, err)
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"payment_id": intent.ID,
		"amount_usd": amountUSD,
	}).Info("Payment intent created")

	return &PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		PaymentID:    intent.ID,
		AmountUSD:    amountUSD,
		Status:       string(intent.Status),
	}, nil
}

// checkSettledIntent ensures the intent settled and was opened for this
// product by this buyer. Intents carry both in metadata precisely so a
// leaked intent ID cannot redeem someone else's payment.
func checkSettledIntent(intent *stripe.PaymentIntent, req *ConfirmCardPurchaseRequest) error {
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment intent is %s", ErrNotAvailable, intent.Status)
	}
	if intent.Metadata["product_id"] != req.ProductID {
		return fmt.Errorf("%w: payment intent is for a different product", ErrProvider)
	}
	if !strings.EqualFold(intent.Metadata["buyer_address"], req.BuyerAddress) {
		return fmt.Errorf("%w: payment intent belongs to a different buyer", ErrUnauthorized)
	}
	return nil
}

// ConfirmCardPurchase checks the intent settled and hands the buy to the
// purchase pipeline.
func (s *PaymentService) ConfirmCardPurchase(ctx context.Context, req *ConfirmCardPurchaseRequest) (*PurchaseResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	intent, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe: %v", ErrProvider, err)
	}
	if err := checkSettledIntent(intent, req); err != nil {
		return nil, err
	}

	result, err := s.nft.Purchase(ctx, req.ProductID, req.BuyerAddress)
	if err != nil {
		// The card already settled; the operator reconciles manually.
		s.log.WithError(err).WithField("payment_id", intent.ID).
			Error("card settled but purchase failed, refund required")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": req.ProductID,
		"payment_id": intent.ID,
		"tx":         utils.ShortHash(result.TransactionHash),
	}).Info("Card purchase settled")
	return result, nil
}
