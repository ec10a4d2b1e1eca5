// internal/handlers/nft.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

type NFTHandler struct {
	nftService *services.NFTService
}

func NewNFTHandler(nftService *services.NFTService) *NFTHandler {
	return &NFTHandler{nftService: nftService}
}

// POST /products/:id/purchase
func (h *NFTHandler) Purchase(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	result, err := h.nftService.Purchase(c.Request.Context(), c.Param("id"), wallet)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /nfts/mine
func (h *NFTHandler) GetMyNFTs(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	nfts, err := h.nftService.GetUserNFTs(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, nfts)
}

// GET /nfts/:address
func (h *NFTHandler) GetNFTsByAddress(c *gin.Context) {
	nfts, err := h.nftService.GetUserNFTs(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, nfts)
}
