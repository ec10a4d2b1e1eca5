// internal/handlers/api_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/craftchain/artisan-marketplace/internal/middleware"
	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/store"
)

type APITestSuite struct {
	suite.Suite
	router *gin.Engine
	wallet *services.SimulatedWallet
	auth   *services.AuthService
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	st := store.New(store.NewMemoryStore())
	suite.wallet = services.NewSimulatedWallet(0)
	sim := services.NewTransactionSimulator(suite.wallet, 0)
	bus := services.NewEventBus()

	registry := services.NewRegistryService(st, sim, bus, nil, "")
	provenance := services.NewProvenanceService(st, nil)
	nft := services.NewNFTService(st, sim, bus, nil, "")
	verification := services.NewVerificationService(st, bus, nil)
	suite.auth = services.NewAuthService(st, registry, 1)

	authHandler := NewAuthHandler(suite.auth)
	artisanHandler := NewArtisanHandler(registry, nil)
	productHandler := NewProductHandler(registry, provenance, verification, nil)
	nftHandler := NewNFTHandler(nft)

	r := gin.New()
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/wallet", authHandler.WalletLogin)
		v1.POST("/auth/admin", authHandler.AdminLogin)

		v1.GET("/artisans", artisanHandler.List)
		v1.GET("/artisans/:id", artisanHandler.Get)
		v1.POST("/artisans", middleware.SessionRequired(), artisanHandler.Register)

		v1.GET("/products", productHandler.GetProducts)
		v1.GET("/products/:id", productHandler.GetProduct)
		v1.GET("/products/:id/provenance", productHandler.GetProvenance)
		v1.POST("/products", middleware.SessionRequired(), productHandler.CreateProduct)
		v1.PATCH("/products/:id", middleware.SessionRequired(), productHandler.UpdateProduct)
		v1.POST("/products/:id/purchase", middleware.SessionRequired(), nftHandler.Purchase)
		v1.POST("/products/:id/verify", middleware.SessionRequired(), middleware.AdminRequired(), productHandler.VerifyProduct)

		v1.GET("/nfts/mine", middleware.SessionRequired(), nftHandler.GetMyNFTs)
	}
	suite.router = r
}

func (suite *APITestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) walletToken(address string) string {
	w := suite.request(http.MethodPost, "/v1/auth/wallet", "", gin.H{"walletAddress": address})
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotEmpty(resp.Data.Token)
	return resp.Data.Token
}

func (suite *APITestSuite) TestListProducts() {
	w := suite.request(http.MethodGet, "/v1/products", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			ID     string `json:"id"`
			IsSold bool   `json:"isSold"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Data, 6)
	suite.False(resp.Data[0].IsSold)
}

func (suite *APITestSuite) TestGetProductNotFound() {
	w := suite.request(http.MethodGet, "/v1/products/product-404", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestCreateProductRequiresSession() {
	w := suite.request(http.MethodPost, "/v1/products", "", gin.H{"name": "x"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestCreateProductUnregisteredWallet() {
	token := suite.walletToken("0xStrangerWallet")
	w := suite.request(http.MethodPost, "/v1/products", token, gin.H{
		"name":        "Rosewood Elephant",
		"description": "A hand-carved rosewood elephant with brass inlay.",
		"materials":   []string{"Rosewood"},
		"price":       0.1,
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestCreateAndFetchProduct() {
	token := suite.walletToken("0xArtisan1WalletAddress")
	w := suite.request(http.MethodPost, "/v1/products", token, gin.H{
		"name":        "Rosewood Elephant",
		"description": "A hand-carved rosewood elephant with brass inlay.",
		"materials":   []string{"Rosewood", "Brass"},
		"price":       0.1,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
			TransactionHash string `json:"transactionHash"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEmpty(resp.Data.TransactionHash)

	got := suite.request(http.MethodGet, "/v1/products/"+resp.Data.Product.ID, "", nil)
	suite.Equal(http.StatusOK, got.Code)
}

func (suite *APITestSuite) TestPurchaseFlow() {
	token := suite.walletToken("0xShopperWallet")
	w := suite.request(http.MethodPost, "/v1/products/product-2/purchase", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	// Second purchase of the same product conflicts.
	again := suite.request(http.MethodPost, "/v1/products/product-2/purchase", token, nil)
	suite.Equal(http.StatusConflict, again.Code)

	owned := suite.request(http.MethodGet, "/v1/nfts/mine", token, nil)
	suite.Require().Equal(http.StatusOK, owned.Code)

	var resp struct {
		Data []struct {
			TokenID string `json:"tokenId"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(owned.Body.Bytes(), &resp))
	suite.Require().Len(resp.Data, 1)
	suite.Equal("2", resp.Data[0].TokenID)
}

func (suite *APITestSuite) TestPurchaseRejectedByWallet() {
	token := suite.walletToken("0xShopperWallet")

	suite.wallet.RejectNext()
	w := suite.request(http.MethodPost, "/v1/products/product-2/purchase", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USER_REJECTED", resp.Error.Code)
}

func (suite *APITestSuite) TestProvenanceEndpoint() {
	w := suite.request(http.MethodGet, "/v1/products/product-5/provenance", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ProductID string `json:"productId"`
			History   []struct {
				Event string `json:"event"`
			} `json:"history"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("product-5", resp.Data.ProductID)
	suite.Len(resp.Data.History, 3)

	missing := suite.request(http.MethodGet, "/v1/products/product-404/provenance", "", nil)
	suite.Equal(http.StatusNotFound, missing.Code)
}

func (suite *APITestSuite) TestVerifyRequiresAdminRole() {
	token := suite.walletToken("0xShopperWallet")
	w := suite.request(http.MethodPost, "/v1/products/product-2/verify", token, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestAdminVerifyFlow() {
	suite.Require().NoError(suite.auth.EnsureAdminAccount(
		context.Background(), "ops@craftchain.example", "sufficiently-secret", "Ops"))

	login := suite.request(http.MethodPost, "/v1/auth/admin", "", gin.H{
		"email":    "ops@craftchain.example",
		"password": "sufficiently-secret",
	})
	suite.Require().Equal(http.StatusOK, login.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(login.Body.Bytes(), &resp))

	w := suite.request(http.MethodPost, "/v1/products/product-2/verify", resp.Data.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var verified struct {
		Data struct {
			IsVerified bool `json:"isVerified"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &verified))
	suite.True(verified.Data.IsVerified)
}

func (suite *APITestSuite) TestRegisterArtisanThenList() {
	token := suite.walletToken("0xNewMakerWallet")
	w := suite.request(http.MethodPost, "/v1/artisans", token, gin.H{
		"name": "Anand Leatherworks",
		"bio":  "Hand-stitched leather goods from George Town, Chennai.",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	// Registering the same wallet again conflicts.
	again := suite.request(http.MethodPost, "/v1/artisans", token, gin.H{
		"name": "Anand Leatherworks",
		"bio":  "Hand-stitched leather goods from George Town, Chennai.",
	})
	suite.Equal(http.StatusConflict, again.Code)

	list := suite.request(http.MethodGet, "/v1/artisans", "", nil)
	suite.Require().Equal(http.StatusOK, list.Code)

	var resp struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(list.Body.Bytes(), &resp))
	suite.Len(resp.Data, 4)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
