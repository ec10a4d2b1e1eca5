// internal/services/verification_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/models"
	"github.com/craftchain/artisan-marketplace/internal/store"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// VerificationService lets marketplace admins mark a listing as
// authenticated. Verification is recorded in the product's provenance log.
type VerificationService struct {
	store    *store.Store
	bus      *EventBus
	contract *ContractClient
	log      *logrus.Entry
}

func NewVerificationService(st *store.Store, bus *EventBus, contract *ContractClient) *VerificationService {
	return &VerificationService{
		store:    st,
		bus:      bus,
		contract: contract,
		log:      logrus.WithField("service", "verification"),
	}
}

// VerifyProduct flags the product as verified on behalf of the admin's
// address. Verifying twice is a no-op beyond the extra provenance entry.
func (s *VerificationService) VerifyProduct(ctx context.Context, productID, actorAddress string) (*models.Product, error) {
	if s.contract != nil {
		if _, err := s.contract.VerifyProduct(ctx, deriveTokenID(productID)); err != nil {
			return nil, err
		}
	}

	var verified *models.Product
	err := s.store.WithLock(func() error {
		products := store.Load(ctx, s.store, store.KeyProducts, models.DefaultProducts())
		idx := -1
		for i := range products {
			if products[i].ID == productID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrNotFound
		}

		products[idx].IsVerified = true
		if serr := store.Save(ctx, s.store, store.KeyProducts, products); serr != nil {
			return serr
		}
		p := products[idx]
		verified = &p
		return appendProvenanceLocked(ctx, s.store, productID, models.ProvenanceEvent{
			Timestamp:    time.Now().UTC(),
			Event:        models.EventVerified,
			ActorAddress: actorAddress,
			Details:      "Authenticity verified by marketplace",
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"admin":      utils.ShortAddress(actorAddress),
	}).Info("Product verified")
	s.bus.Publish(MutationEvent{Type: EventProductVerified, ProductID: productID, ArtisanID: verified.ArtisanID, Actor: actorAddress})
	return verified, nil
}
