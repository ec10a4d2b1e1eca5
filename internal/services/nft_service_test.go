// internal/services/nft_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftchain/artisan-marketplace/internal/models"
)

func TestPurchase(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.nft.Purchase(ctx, "product-2", "0xBuyerWallet")
	require.NoError(t, err)
	require.NotNil(t, result.Product)
	require.NotNil(t, result.NFT)

	assert.True(t, result.Product.IsSold)
	assert.Equal(t, "0xBuyerWallet", result.Product.OwnerAddress)
	assert.Equal(t, "2", result.NFT.TokenID)
	assert.Equal(t, `Handwoven Silk Shawl "Peacock Feather"`, result.NFT.Name)
	assert.Equal(t, "Ravi Textiles", result.NFT.ArtisanName)
	assert.Equal(t, result.TransactionHash, result.NFT.TransactionHash)

	// The NFT lands in the buyer's collection under the lowercased address.
	owned, err := env.nft.GetUserNFTs(ctx, "0xBUYERWALLET")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "2", owned[0].TokenID)

	// Catalog reflects the sale.
	product, err := env.registry.GetProduct(ctx, "product-2")
	require.NoError(t, err)
	assert.True(t, product.IsSold)

	// Provenance gains a sale event naming buyer and transaction.
	record, err := env.provenance.Get(ctx, "product-2")
	require.NoError(t, err)
	last := record.History[len(record.History)-1]
	assert.Equal(t, models.EventSold, last.Event)
	assert.Equal(t, "0xBuyerWallet", last.ActorAddress)
	assert.Contains(t, last.Details, "Purchased by 0xBuye")
	assert.Contains(t, last.Details, "Tx: 0x")
}

func TestPurchaseUnknownProduct(t *testing.T) {
	env := newTestEnv()

	_, err := env.nft.Purchase(context.Background(), "product-404", "0xBuyerWallet")
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestPurchaseSoldProduct(t *testing.T) {
	env := newTestEnv()

	// product-5 is seeded sold.
	_, err := env.nft.Purchase(context.Background(), "product-5", "0xBuyerWallet")
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestPurchaseTwiceSecondBuyerLoses(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.nft.Purchase(ctx, "product-2", "0xFirstBuyer")
	require.NoError(t, err)

	_, err = env.nft.Purchase(ctx, "product-2", "0xSecondBuyer")
	assert.ErrorIs(t, err, ErrNotAvailable)

	// The loser's collection stays empty.
	owned, err := env.nft.GetUserNFTs(ctx, "0xSecondBuyer")
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestPurchaseWalletRejectionLeavesStateUntouched(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.wallet.RejectNext()
	_, err := env.nft.Purchase(ctx, "product-2", "0xBuyerWallet")
	assert.ErrorIs(t, err, ErrUserRejected)

	product, err := env.registry.GetProduct(ctx, "product-2")
	require.NoError(t, err)
	assert.False(t, product.IsSold)

	owned, err := env.nft.GetUserNFTs(ctx, "0xBuyerWallet")
	require.NoError(t, err)
	assert.Empty(t, owned)

	// Retry after rejection succeeds.
	_, err = env.nft.Purchase(ctx, "product-2", "0xBuyerWallet")
	assert.NoError(t, err)
}

func TestPurchaseProviderFailure(t *testing.T) {
	env := newTestEnv()

	env.wallet.FailNext()
	_, err := env.nft.Purchase(context.Background(), "product-2", "0xBuyerWallet")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestGetUserNFTsSeededCollection(t *testing.T) {
	env := newTestEnv()

	owned, err := env.nft.GetUserNFTs(context.Background(), "0xCustomer1WalletAddress")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "5", owned[0].TokenID)
}

func TestDeriveTokenID(t *testing.T) {
	assert.Equal(t, "2", deriveTokenID("product-2"))
	assert.Equal(t, "1723456789", deriveTokenID("product-1723456789-abcd"))
	// No digits falls back to a unix timestamp.
	assert.Regexp(t, `^\d{10,}$`, deriveTokenID("product-abc"))
}
