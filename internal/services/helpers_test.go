// internal/services/helpers_test.go
package services

import (
	"github.com/craftchain/artisan-marketplace/internal/store"
)

// testEnv wires the service stack over an in-memory store with an
// instant-confirming wallet.
type testEnv struct {
	store        *store.Store
	wallet       *SimulatedWallet
	sim          *TransactionSimulator
	bus          *EventBus
	registry     *RegistryService
	nft          *NFTService
	provenance   *ProvenanceService
	verification *VerificationService
}

func newTestEnv() *testEnv {
	st := store.New(store.NewMemoryStore())
	wallet := NewSimulatedWallet(0)
	sim := NewTransactionSimulator(wallet, 0)
	bus := NewEventBus()

	return &testEnv{
		store:        st,
		wallet:       wallet,
		sim:          sim,
		bus:          bus,
		registry:     NewRegistryService(st, sim, bus, nil, ""),
		nft:          NewNFTService(st, sim, bus, nil, ""),
		provenance:   NewProvenanceService(st, nil),
		verification: NewVerificationService(st, bus, nil),
	}
}

func validRegisterRequest() *RegisterArtisanRequest {
	return &RegisterArtisanRequest{
		Name: "Kumar Woodworks",
		Bio:  "Hand-carved rosewood furniture and figurines from Mylapore.",
	}
}

func validProductRequest() *AddProductRequest {
	return &AddProductRequest{
		Name:        "Rosewood Elephant",
		Description: "A hand-carved rosewood elephant with inlaid brass detailing.",
		Materials:   []string{"Rosewood", "Brass"},
		Price:       0.12,
	}
}
