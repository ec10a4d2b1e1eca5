// internal/models/product.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Product is a listed item. It is owned by its artisan until sold, after
// which OwnerAddress holds the buyer's wallet and IsSold is terminal.
type Product struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Materials    pq.StringArray `json:"materials"`
	ArtisanID    string         `json:"artisanId"`
	CreationDate time.Time      `json:"creationDate"`
	ImageURL     string         `json:"imageUrl"`
	Price        float64        `json:"price"`
	IsVerified   bool           `json:"isVerified"`
	IsSold       bool           `json:"isSold"`
	OwnerAddress string         `json:"ownerAddress,omitempty"`
}
