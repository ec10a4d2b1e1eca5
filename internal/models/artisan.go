// internal/models/artisan.go
package models

import "strings"

// Artisan is a seller identity bound to a wallet address. The wallet address
// is immutable after registration and compared case-insensitively.
type Artisan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Bio           string `json:"bio"`
	WalletAddress string `json:"walletAddress"`
	ProfileImage  string `json:"profileImage,omitempty"`
}

func (a *Artisan) HasWallet(address string) bool {
	return strings.EqualFold(a.WalletAddress, address)
}
