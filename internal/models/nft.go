// internal/models/nft.go
package models

// NFT is the synthetic ownership token minted on purchase. Exactly one NFT
// exists per successful sale, stored in the buyer's per-address collection.
type NFT struct {
	TokenID         string `json:"tokenId"`
	ContractAddress string `json:"contractAddress"`
	Name            string `json:"name"`
	ImageURL        string `json:"imageUrl"`
	Description     string `json:"description"`
	ArtisanName     string `json:"artisanName"`
	TransactionHash string `json:"transactionHash,omitempty"`
}
