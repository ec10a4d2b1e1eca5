// internal/models/seed.go
package models

import "time"

// Demo contract addresses used until a real deployment address is configured.
const (
	DefaultRegistryContractAddress    = "0x0000000000000000000000000000000000000001"
	DefaultMarketplaceContractAddress = "0x0000000000000000000000000000000000000002"
)

// DefaultArtisans seeds a fresh store so the marketplace is browsable before
// any registration has happened.
func DefaultArtisans() []Artisan {
	return []Artisan{
		{
			ID:            "artisan-1",
			Name:          "Lakshmi Pottery",
			Bio:           "Creating handcrafted pottery with traditional Chennai designs for over 20 years. Each piece tells a story of heritage and craftsmanship.",
			WalletAddress: "0xArtisan1WalletAddress",
			ProfileImage:  "https://picsum.photos/seed/lakshmi/200/200",
		},
		{
			ID:            "artisan-2",
			Name:          "Ravi Textiles",
			Bio:           "Weaving vibrant Kanjeevaram silk sarees and textiles, preserving the rich weaving traditions of Tamil Nadu.",
			WalletAddress: "0xArtisan2WalletAddress",
			ProfileImage:  "https://picsum.photos/seed/ravi/200/200",
		},
		{
			ID:            "artisan-3",
			Name:          "Meena Sculptures",
			Bio:           "Crafting exquisite bronze and stone sculptures inspired by Chola art and local deities. Passionate about detail and authenticity.",
			WalletAddress: "0xArtisan3WalletAddress",
		},
	}
}

func DefaultProducts() []Product {
	return []Product{
		{
			ID:           "product-1",
			Name:         `Terracotta Vase "Sunrise"`,
			Description:  "A beautiful hand-painted terracotta vase depicting a sunrise over the Marina Beach. Perfect for adding an ethnic touch to your home.",
			Materials:    []string{"Terracotta Clay", "Natural Dyes"},
			ArtisanID:    "artisan-1",
			CreationDate: time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
			ImageURL:     "https://picsum.photos/seed/pottery1/600/400",
			Price:        0.05,
			IsVerified:   true,
		},
		{
			ID:           "product-2",
			Name:         `Handwoven Silk Shawl "Peacock Feather"`,
			Description:  "Luxurious Kanjeevaram silk shawl with intricate peacock feather motifs. A masterpiece of traditional weaving.",
			Materials:    []string{"Mulberry Silk", "Gold Zari"},
			ArtisanID:    "artisan-2",
			CreationDate: time.Date(2023, time.February, 20, 0, 0, 0, 0, time.UTC),
			ImageURL:     "https://picsum.photos/seed/textile1/600/400",
			Price:        0.2,
		},
		{
			ID:           "product-3",
			Name:         "Bronze Nataraja Idol",
			Description:  "A stunning bronze Nataraja idol, capturing the cosmic dance of Lord Shiva. Crafted using the lost-wax technique.",
			Materials:    []string{"Bronze"},
			ArtisanID:    "artisan-3",
			CreationDate: time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC),
			ImageURL:     "https://picsum.photos/seed/sculpture1/600/400",
			Price:        0.5,
			IsVerified:   true,
		},
		{
			ID:           "product-4",
			Name:         `Clay Cooking Pot "Earthen Flavors"`,
			Description:  "Traditional clay cooking pot, ideal for slow cooking and enhancing the natural flavors of food. Seasoned and ready to use.",
			Materials:    []string{"River Clay"},
			ArtisanID:    "artisan-1",
			CreationDate: time.Date(2023, time.April, 5, 0, 0, 0, 0, time.UTC),
			ImageURL:     "https://picsum.photos/seed/pottery2/600/400",
			Price:        0.02,
		},
		{
			ID:           "product-5",
			Name:         `Printed Cotton Kurti "Summer Bloom"`,
			Description:  "Comfortable and stylish printed cotton kurti with floral designs. Perfect for casual wear in warm weather.",
			Materials:    []string{"Cotton", "Vegetable Dyes"},
			ArtisanID:    "artisan-2",
			CreationDate: time.Date(2023, time.May, 12, 0, 0, 0, 0, time.UTC),
			ImageURL:     "https://picsum.photos/seed/textile2/600/400",
			Price:        0.03,
			IsSold:       true,
			OwnerAddress: "0xCustomer1WalletAddress",
		},
		{
			ID:           "product-6",
			Name:         "Miniature Ganesha Stone Carving",
			Description:  "Intricately carved miniature Ganesha from locally sourced soapstone. A charming piece for your desk or altar.",
			Materials:    []string{"Soapstone"},
			ArtisanID:    "artisan-3",
			CreationDate: time.Date(2023, time.June, 22, 0, 0, 0, 0, time.UTC),
			ImageURL:     "https://picsum.photos/seed/sculpture2/600/400",
			Price:        0.08,
		},
	}
}

func DefaultProvenance() map[string]ProductProvenance {
	return map[string]ProductProvenance{
		"product-1": {
			ProductID: "product-1",
			History: []ProvenanceEvent{
				{
					Event:        EventCreated,
					Timestamp:    time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
					ActorAddress: "0xArtisan1WalletAddress",
					Details:      `Initial minting of Terracotta Vase "Sunrise"`,
				},
				{
					Event:        EventListed,
					Timestamp:    time.Date(2023, time.January, 16, 0, 0, 0, 0, time.UTC),
					ActorAddress: "0xArtisan1WalletAddress",
					Details:      "Price set at 0.05 ETH",
				},
			},
		},
		"product-5": {
			ProductID: "product-5",
			History: []ProvenanceEvent{
				{
					Event:        EventCreated,
					Timestamp:    time.Date(2023, time.May, 12, 0, 0, 0, 0, time.UTC),
					ActorAddress: "0xArtisan2WalletAddress",
				},
				{
					Event:        EventListed,
					Timestamp:    time.Date(2023, time.May, 13, 0, 0, 0, 0, time.UTC),
					ActorAddress: "0xArtisan2WalletAddress",
				},
				{
					Event:        EventSold,
					Timestamp:    time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC),
					ActorAddress: "0xCustomer1WalletAddress",
					Details:      "Purchased by 0xCustomer1WalletAddress",
				},
			},
		},
	}
}

func DefaultUserNFTs() map[string][]NFT {
	return map[string][]NFT{
		"0xcustomer1walletaddress": {
			{
				TokenID:         "5",
				ContractAddress: DefaultRegistryContractAddress,
				Name:            `Printed Cotton Kurti "Summer Bloom"`,
				ImageURL:        "https://picsum.photos/seed/textile2/600/400",
				Description:     "Comfortable and stylish printed cotton kurti with floral designs. Perfect for casual wear in warm weather.",
				ArtisanName:     "Ravi Textiles",
			},
		},
	}
}
