// internal/services/nft_service.go
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/models"
	"github.com/craftchain/artisan-marketplace/internal/store"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

var tokenIDPattern = regexp.MustCompile(`\d+`)

// NFTService runs purchases and tracks per-wallet NFT collections. A
// purchase confirms payment first, then commits the NFT grant, the sold
// flag, and the provenance entry together, rolling back on a partial
// failure.
type NFTService struct {
	store           *store.Store
	sim             *TransactionSimulator
	bus             *EventBus
	contract        *ContractClient
	contractAddress string
	log             *logrus.Entry
}

func NewNFTService(st *store.Store, sim *TransactionSimulator, bus *EventBus, contract *ContractClient, contractAddress string) *NFTService {
	if contractAddress == "" {
		contractAddress = models.DefaultMarketplaceContractAddress
	}
	return &NFTService{
		store:           st,
		sim:             sim,
		bus:             bus,
		contract:        contract,
		contractAddress: contractAddress,
		log:             logrus.WithField("service", "nft"),
	}
}

type PurchaseResult struct {
	Product         *models.Product `json:"product"`
	NFT             *models.NFT     `json:"nft"`
	TransactionHash string          `json:"transactionHash"`
}

// Purchase buys the product for the wallet at its listed price. Availability
// is rechecked under the store lock after payment confirms, so two
// concurrent buyers cannot both win.
func (s *NFTService) Purchase(ctx context.Context, productID, buyerAddress string) (*PurchaseResult, error) {
	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	tokenID := deriveTokenID(productID)

	var txHash string
	if s.contract != nil {
		txHash, err = s.contract.PurchaseProduct(ctx, tokenID, buyerAddress, WeiFromEth(product.Price))
	} else {
		var receipt *TxReceipt
		receipt, err = s.sim.Submit(ctx, TxRequest{
			From:     buyerAddress,
			To:       s.contractAddress,
			ValueWei: WeiFromEth(product.Price),
			Data:     "purchase:" + productID,
		})
		if receipt != nil {
			txHash = receipt.Hash
		}
	}
	if err != nil {
		return nil, err
	}

	result := &PurchaseResult{TransactionHash: txHash}
	err = s.store.WithLock(func() error {
		products := store.Load(ctx, s.store, store.KeyProducts, models.DefaultProducts())
		idx := -1
		for i := range products {
			if products[i].ID == productID {
				idx = i
				break
			}
		}
		// Recheck: another buyer may have won between payment and commit.
		if idx < 0 || products[idx].IsSold {
			return ErrNotAvailable
		}

		artisanName := "Unknown Artisan"
		artisans := store.Load(ctx, s.store, store.KeyArtisans, models.DefaultArtisans())
		for i := range artisans {
			if artisans[i].ID == products[idx].ArtisanID {
				artisanName = artisans[i].Name
				break
			}
		}

		nft := models.NFT{
			TokenID:         tokenID,
			ContractAddress: s.contractAddress,
			Name:            products[idx].Name,
			ImageURL:        products[idx].ImageURL,
			Description:     products[idx].Description,
			ArtisanName:     artisanName,
			TransactionHash: txHash,
		}

		collections := store.Load(ctx, s.store, store.KeyUserNFTs, models.DefaultUserNFTs())
		collectionKey := strings.ToLower(buyerAddress)
		priorCollection := collections[collectionKey]
		collections[collectionKey] = append(append([]models.NFT(nil), priorCollection...), nft)

		priorProduct := products[idx]
		products[idx].IsSold = true
		products[idx].OwnerAddress = buyerAddress

		if serr := store.Save(ctx, s.store, store.KeyProducts, products); serr != nil {
			return serr
		}
		if serr := store.Save(ctx, s.store, store.KeyUserNFTs, collections); serr != nil {
			// Roll the sold flag back so the catalog and the collections
			// never disagree.
			products[idx] = priorProduct
			if rerr := store.Save(ctx, s.store, store.KeyProducts, products); rerr != nil {
				s.log.WithError(rerr).Error("purchase rollback failed, product flagged sold without NFT")
			}
			return serr
		}
		if serr := appendProvenanceLocked(ctx, s.store, productID, models.ProvenanceEvent{
			Timestamp:    time.Now().UTC(),
			Event:        models.EventSold,
			ActorAddress: buyerAddress,
			Details:      fmt.Sprintf("Purchased by %s. Tx: %s", utils.ShortAddress(buyerAddress), utils.ShortHash(txHash)),
		}); serr != nil {
			products[idx] = priorProduct
			collections[collectionKey] = priorCollection
			if rerr := store.Save(ctx, s.store, store.KeyProducts, products); rerr != nil {
				s.log.WithError(rerr).Error("purchase rollback failed for products")
			}
			if rerr := store.Save(ctx, s.store, store.KeyUserNFTs, collections); rerr != nil {
				s.log.WithError(rerr).Error("purchase rollback failed for collections")
			}
			return serr
		}

		sold := products[idx]
		result.Product = &sold
		result.NFT = &nft
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"token_id":   tokenID,
		"buyer":      utils.ShortAddress(buyerAddress),
		"tx":         utils.ShortHash(txHash),
	}).Info("Product sold")
	s.bus.Publish(MutationEvent{Type: EventProductSold, ProductID: productID, ArtisanID: result.Product.ArtisanID, Actor: buyerAddress})
	return result, nil
}

// GetUserNFTs returns the wallet's collection, empty when it owns nothing.
func (s *NFTService) GetUserNFTs(ctx context.Context, walletAddress string) ([]models.NFT, error) {
	var owned []models.NFT
	err := s.store.WithLock(func() error {
		collections := store.Load(ctx, s.store, store.KeyUserNFTs, models.DefaultUserNFTs())
		owned = append([]models.NFT{}, collections[strings.ToLower(walletAddress)]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return owned, nil
}

func (s *NFTService) availableProduct(ctx context.Context, productID string) (*models.Product, error) {
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
	if found == nil || found.IsSold {
		return nil, ErrNotAvailable
	}
	return found, nil
}

// deriveTokenID keeps token ids numeric: the first digit run in the product
// id, or the current unix time when the id carries none.
func deriveTokenID(productID string) string {
	if digits := tokenIDPattern.FindString(productID); digits != "" {
		return digits
	}
	return fmt.Sprintf("%d", time.Now().Unix())
}
