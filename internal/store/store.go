// internal/store/store.go
package store

import "context"

// Well-known collection keys. The key names are part of the persisted wire
// format and match the original storage layout.
const (
	KeyArtisans          = "blockchain_artisans"
	KeyProducts          = "blockchain_products"
	KeyUserNFTs          = "blockchain_user_nfts"
	KeyProductProvenance = "blockchain_product_provenance"
	KeyAdmins            = "marketplace_admins"
)

// KVStore is the persistence port. Values are opaque JSON payloads; the
// collection layer above handles encoding and fallback semantics.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
