// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/craftchain/artisan-marketplace/internal/config"
	"github.com/craftchain/artisan-marketplace/internal/handlers"
	"github.com/craftchain/artisan-marketplace/internal/middleware"
	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/store"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// Initialize wires services and handlers over the shared state store and
// returns the HTTP engine plus a shutdown function for background workers.
func Initialize(st *store.Store, cfg *config.Config) (*gin.Engine, func()) {
	// Contract mode mirrors every mutation through the RPC gateway.
	var contract *services.ContractClient
	if cfg.Blockchain.Mode == "contract" {
		contract = services.NewContractClient(cfg.Blockchain.RPCURL, cfg.Blockchain.MarketplaceContract)
	}

	bus := services.NewEventBus()
	wallet := services.NewSimulatedWallet(time.Duration(cfg.Blockchain.WalletDelayMs) * time.Millisecond)
	sim := services.NewTransactionSimulator(wallet, time.Duration(cfg.Blockchain.ConfirmDelayMs)*time.Millisecond)

	storageService, _ := services.NewStorageService(cfg)
	registryService := services.NewRegistryService(st, sim, bus, contract, cfg.Blockchain.RegistryContract)
	provenanceService := services.NewProvenanceService(st, contract)
	nftService := services.NewNFTService(st, sim, bus, contract, cfg.Blockchain.MarketplaceContract)
	verificationService := services.NewVerificationService(st, bus, contract)
	authService := services.NewAuthService(st, registryService, cfg.JWT.AccessTokenTTL)

	// Card purchases settle through a custodial wallet that never prompts.
	custodialSim := services.NewTransactionSimulator(services.NewSimulatedWallet(0), 0)
	custodialNFT := services.NewNFTService(st, custodialSim, bus, contract, cfg.Blockchain.MarketplaceContract)
	paymentService := services.NewPaymentService(cfg, registryService, custodialNFT)

	authHandler := handlers.NewAuthHandler(authService)
	artisanHandler := handlers.NewArtisanHandler(registryService, storageService)
	productHandler := handlers.NewProductHandler(registryService, provenanceService, verificationService, storageService)
	nftHandler := handlers.NewNFTHandler(nftService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	stopAudit := middleware.StartMutationAudit(bus)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit(cfg.RateLimit.GeneralRPS))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"mode":    cfg.Blockchain.Mode,
			"network": cfg.Blockchain.Network,
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit(cfg.RateLimit.AuthRPM))
		{
			auth.POST("/wallet", authHandler.WalletLogin)
			auth.POST("/admin", authHandler.AdminLogin)
		}

		artisans := v1.Group("/artisans")
		{
			artisans.GET("", artisanHandler.List)
			artisans.GET("/me", middleware.SessionRequired(), artisanHandler.Me)
			artisans.GET("/:id", artisanHandler.Get)

			protected := artisans.Group("")
			protected.Use(middleware.SessionRequired())
			{
				protected.POST("", artisanHandler.Register)
				protected.POST("/me/profile-image", artisanHandler.UploadProfileImage)
			}
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/mine", middleware.SessionRequired(), productHandler.GetMyProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/provenance", productHandler.GetProvenance)

			protected := products.Group("")
			protected.Use(middleware.SessionRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.POST("/images", productHandler.UploadProductImage)
				protected.PATCH("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.POST("/:id/purchase", middleware.PurchaseRateLimit(cfg.RateLimit.PurchaseRPM), nftHandler.Purchase)
				protected.POST("/:id/verify", middleware.AdminRequired(), productHandler.VerifyProduct)
			}
		}

		nfts := v1.Group("/nfts")
		{
			nfts.GET("/mine", middleware.SessionRequired(), nftHandler.GetMyNFTs)
			nfts.GET("/:address", nftHandler.GetNFTsByAddress)
		}

		payments := v1.Group("/payments")
		payments.Use(middleware.SessionRequired())
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", middleware.PurchaseRateLimit(cfg.RateLimit.PurchaseRPM), paymentHandler.ConfirmCardPurchase)
		}
	}

	return r, stopAudit
}
