// internal/services/registry_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/models"
	"github.com/craftchain/artisan-marketplace/internal/store"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// RegistryService manages artisan identities and product listings. Listing a
// product mints it on chain, so mutations go through the transaction
// simulator (or the real contract when one is configured) before the store
// is touched.
type RegistryService struct {
	store           *store.Store
	sim             *TransactionSimulator
	bus             *EventBus
	contract        *ContractClient
	contractAddress string
	log             *logrus.Entry
}

func NewRegistryService(st *store.Store, sim *TransactionSimulator, bus *EventBus, contract *ContractClient, contractAddress string) *RegistryService {
	if contractAddress == "" {
		contractAddress = models.DefaultRegistryContractAddress
	}
	return &RegistryService{
		store:           st,
		sim:             sim,
		bus:             bus,
		contract:        contract,
		contractAddress: contractAddress,
		log:             logrus.WithField("service", "registry"),
	}
}

type RegisterArtisanRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Bio          string `json:"bio" validate:"required,min=10,max=2000"`
	ProfileImage string `json:"profileImage" validate:"omitempty,url"`
}

type AddProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=255"`
	Description string   `json:"description" validate:"required,min=10,max=5000"`
	Materials   []string `json:"materials" validate:"required,min=1,dive,required"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Price       float64  `json:"price" validate:"required,gt=0"`
}

// UpdateProductRequest is a merge patch: zero values leave the stored field
// untouched.
type UpdateProductRequest struct {
	Name        string   `json:"name" validate:"omitempty,min=3,max=255"`
	Description string   `json:"description" validate:"omitempty,min=10,max=5000"`
	Materials   []string `json:"materials" validate:"omitempty,min=1,dive,required"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Price       float64  `json:"price" validate:"omitempty,gt=0"`
}

type AddProductResult struct {
	Product         *models.Product `json:"product"`
	TransactionHash string          `json:"transactionHash"`
}

// RegisterArtisan creates a new on-chain identity for the wallet. A wallet
// can hold at most one registration.
func (s *RegistryService) RegisterArtisan(ctx context.Context, walletAddress string, req *RegisterArtisanRequest) (*models.Artisan, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// Cheap pre-check so a duplicate never reaches the wallet prompt.
	if existing, _ := s.GetArtisanByWallet(ctx, walletAddress); existing != nil {
		return nil, ErrDuplicateRegistration
	}

	artisan := &models.Artisan{
		ID:            utils.GenerateEntityID("artisan"),
		Name:          req.Name,
		Bio:           req.Bio,
		WalletAddress: walletAddress,
		ProfileImage:  req.ProfileImage,
	}

	if s.contract != nil {
		if _, err := s.contract.RegisterArtisan(ctx, artisan); err != nil {
			return nil, err
		}
	}

	err := s.store.WithLock(func() error {
		artisans := store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		for i := range artisans {
			if artisans[i].HasWallet(walletAddress) {
				return ErrDuplicateRegistration
			}
		}
		artisans = append(artisans, *artisan)
		return store.Save(ctx, s.store, store.KeyArtisans, artisans)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"artisan_id": artisan.ID,
		"wallet":     utils.ShortAddress(walletAddress),
	}).Info("Artisan registered")
	s.bus.Publish(MutationEvent{Type: EventArtisanRegistered, ArtisanID: artisan.ID, Actor: walletAddress})
	return artisan, nil
}

// IsArtisanRegistered reports whether the wallet has an artisan identity.
func (s *RegistryService) IsArtisanRegistered(ctx context.Context, walletAddress string) (bool, error) {
	artisan, err := s.GetArtisanByWallet(ctx, walletAddress)
	if err != nil {
		if err == ErrArtisanNotRegistered {
			return false, nil
		}
		return false, err
	}
	return artisan != nil, nil
}

// GetArtisanByWallet resolves the wallet's artisan identity, or
// ErrArtisanNotRegistered.
func (s *RegistryService) GetArtisanByWallet(ctx context.Context, walletAddress string) (*models.Artisan, error) {
	if s.contract != nil {
		if artisan, err := s.contract.GetArtisanByAddress(ctx, walletAddress); err == nil {
			return artisan, nil
		} else if err == ErrArtisanNotRegistered {
			return nil, err
		}
		// Gateway trouble falls back to the local mirror.
	}

	var found *models.Artisan
	err := s.store.WithLock(func() error {
		artisans := store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		for i := range artisans {
			if artisans[i].HasWallet(walletAddress) {
				a := artisans[i]
				found = &a
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrArtisanNotRegistered
	}
	return found, nil
}

// GetArtisanByID looks an artisan up by its registry identifier.
func (s *RegistryService) GetArtisanByID(ctx context.Context, artisanID string) (*models.Artisan, error) {
	var found *models.Artisan
	err := s.store.WithLock(func() error {
		artisans := store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		for i := range artisans {
			if artisans[i].ID == artisanID {
				a := artisans[i]
				found = &a
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// ListArtisans returns every registered artisan.
func (s *RegistryService) ListArtisans(ctx context.Context) ([]models.Artisan, error) {
	var artisans []models.Artisan
	err := s.store.WithLock(func() error {
		artisans = store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		return nil
	})
	return artisans, err
}

// AddProduct mints a new product listing for the calling artisan's wallet.
// The mint transaction is confirmed before anything is written, so a
// rejected or failed transaction leaves no trace.
func (s *RegistryService) AddProduct(ctx context.Context, walletAddress string, req *AddProductRequest) (*AddProductResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	artisan, err := s.GetArtisanByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:           utils.GenerateEntityID("product"),
		Name:         req.Name,
		Description:  req.Description,
		Materials:    pq.StringArray(req.Materials),
		ArtisanID:    artisan.ID,
		CreationDate: now,
		ImageURL:     req.ImageURL,
		Price:        req.Price,
		IsVerified:   false,
		IsSold:       false,
		OwnerAddress: walletAddress,
	}

	var txHash string
	if s.contract != nil {
		tokenID, hash, cerr := s.contract.CreateProduct(ctx, product, walletAddress)
		if cerr != nil {
			return nil, cerr
		}
		txHash = hash
		if tokenID != "" {
			product.ID = "product-" + tokenID
		}
	} else {
		receipt, serr := s.sim.Submit(ctx, TxRequest{
			From: walletAddress,
			To:   s.contractAddress,
			Data: "mint:" + product.ID,
		})
		if serr != nil {
			return nil, serr
		}
		txHash = receipt.Hash
	}

	err = s.store.WithLock(func() error {
		products := store.Load(ctx, s.store, store.KeyProducts, models.DefaultProducts())
		products = append(products, *product)
		if serr := store.Save(ctx, s.store, store.KeyProducts, products); serr != nil {
			return serr
		}
		return appendProvenanceLocked(ctx, s.store, product.ID,
			models.ProvenanceEvent{
				Timestamp:    now,
				Event:        models.EventCreated,
				ActorAddress: walletAddress,
				Details:      fmt.Sprintf("Created by %s. Tx: %s", artisan.Name, utils.ShortHash(txHash)),
			},
			models.ProvenanceEvent{
				Timestamp:    now,
				Event:        models.EventListed,
				ActorAddress: walletAddress,
				Details:      fmt.Sprintf("Listed at %.4f ETH", product.Price),
			},
		)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"artisan_id": artisan.ID,
		"tx":         utils.ShortHash(txHash),
	}).Info("Product listed")
	s.bus.Publish(MutationEvent{Type: EventProductCreated, ProductID: product.ID, ArtisanID: artisan.ID, Actor: walletAddress})
	return &AddProductResult{Product: product, TransactionHash: txHash}, nil
}

// UpdateProduct applies a merge patch to a listing the caller owns.
func (s *RegistryService) UpdateProduct(ctx context.Context, walletAddress, productID string, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var updated *models.Product
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

		artisans := store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		owner := false
		for i := range artisans {
			if artisans[i].ID == products[idx].ArtisanID && artisans[i].HasWallet(walletAddress) {
				owner = true
				break
			}
		}
		if !owner {
			return ErrUnauthorized
		}

		changed := []string{}
		if req.Name != "" {
			products[idx].Name = req.Name
			changed = append(changed, "name")
		}
		if req.Description != "" {
			products[idx].Description = req.Description
			changed = append(changed, "description")
		}
		if len(req.Materials) > 0 {
			products[idx].Materials = pq.StringArray(req.Materials)
			changed = append(changed, "materials")
		}
		if req.ImageURL != "" {
			products[idx].ImageURL = req.ImageURL
			changed = append(changed, "image")
		}
		if req.Price > 0 {
			products[idx].Price = req.Price
			changed = append(changed, "price")
		}

		if serr := store.Save(ctx, s.store, store.KeyProducts, products); serr != nil {
			return serr
		}
		p := products[idx]
		updated = &p
		return appendProvenanceLocked(ctx, s.store, productID, models.ProvenanceEvent{
			Timestamp:    time.Now().UTC(),
			Event:        models.EventUpdated,
			ActorAddress: walletAddress,
			Details:      "Updated: " + strings.Join(changed, ", "),
		})
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(MutationEvent{Type: EventProductUpdated, ProductID: productID, ArtisanID: updated.ArtisanID, Actor: walletAddress})
	return updated, nil
}

// RemoveProduct delists a product the caller owns. Sold products are
// immutable history and cannot be removed.
func (s *RegistryService) RemoveProduct(ctx context.Context, walletAddress, productID string) error {
	var artisanID string
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
		if products[idx].IsSold {
			return ErrNotAvailable
		}

		artisans := store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		owner := false
		for i := range artisans {
			if artisans[i].ID == products[idx].ArtisanID && artisans[i].HasWallet(walletAddress) {
				owner = true
				break
			}
		}
		if !owner {
			return ErrUnauthorized
		}

		artisanID = products[idx].ArtisanID
		products = append(products[:idx], products[idx+1:]...)
		if serr := store.Save(ctx, s.store, store.KeyProducts, products); serr != nil {
			return serr
		}

		logs := store.Load(ctx, s.store, store.KeyProductProvenance, models.DefaultProvenance())
		delete(logs, productID)
		return store.Save(ctx, s.store, store.KeyProductProvenance, logs)
	})
	if err != nil {
		return err
	}

	s.log.WithField("product_id", productID).Info("Product removed")
	s.bus.Publish(MutationEvent{Type: EventProductRemoved, ProductID: productID, ArtisanID: artisanID, Actor: walletAddress})
	return nil
}

// GetProduct fetches one product by id.
func (s *RegistryService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var found *models.Product
	err := s.store.WithLock(func() error {
		products := store.Load(ctx, s.store, store.KeyProducts, models.DefaultProducts())
		for i := range products {
			if products[i].ID == productID {
				p := products[i]
				found = &p
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// GetAllProducts returns the catalog with available listings first, newest
// within each group.
func (s *RegistryService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.store.WithLock(func() error {
		products = store.Load(ctx, s.store, store.KeyProducts, models.DefaultProducts())
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].IsSold != products[j].IsSold {
			return !products[i].IsSold
		}
		return products[i].CreationDate.After(products[j].CreationDate)
	})
	return products, nil
}

// GetProductsByArtisan lists the wallet's own products, newest first.
func (s *RegistryService) GetProductsByArtisan(ctx context.Context, walletAddress string) ([]models.Product, error) {
	artisan, err := s.GetArtisanByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	var mine []models.Product
	err = s.store.WithLock(func() error {
		products := store.Load(ctx, s.store, store.KeyProducts, models.DefaultProducts())
		for i := range products {
			if products[i].ArtisanID == artisan.ID {
				mine = append(mine, products[i])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreationDate.After(mine[j].CreationDate)
	})
	return mine, nil
}
