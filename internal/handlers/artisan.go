// internal/handlers/artisan.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

type ArtisanHandler struct {
	registry *services.RegistryService
	storage  *services.StorageService
}

func NewArtisanHandler(registry *services.RegistryService, storage *services.StorageService) *ArtisanHandler {
	return &ArtisanHandler{registry: registry, storage: storage}
}

// POST /artisans
func (h *ArtisanHandler) Register(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	var req services.RegisterArtisanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	artisan, err := h.registry.RegisterArtisan(c.Request.Context(), wallet, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, artisan)
}

// GET /artisans
func (h *ArtisanHandler) List(c *gin.Context) {
	artisans, err := h.registry.ListArtisans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page := utils.PageSlice(artisans, params)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(page, int64(len(artisans)), params))
}

// GET /artisans/:id
func (h *ArtisanHandler) Get(c *gin.Context) {
	artisan, err := h.registry.GetArtisanByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, artisan)
}

// GET /artisans/me
func (h *ArtisanHandler) Me(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	artisan, err := h.registry.GetArtisanByWallet(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, artisan)
}

// POST /artisans/me/profile-image
func (h *ArtisanHandler) UploadProfileImage(c *gin.Context) {
	if _, ok := utils.GetWalletFromContext(c); !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required", err.Error())
		return
	}
	defer file.Close()

	result, err := h.storage.UploadImage(file, header, h.storage.GetDefaultUploadOptions("profiles"))
	if err != nil {
		utils.BadRequestResponse(c, "Upload failed", err.Error())
		return
	}

	utils.CreatedResponse(c, result)
}
