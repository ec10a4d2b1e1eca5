// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

type ProductHandler struct {
	registry     *services.RegistryService
	provenance   *services.ProvenanceService
	verification *services.VerificationService
	storage      *services.StorageService
}

func NewProductHandler(registry *services.RegistryService, provenance *services.ProvenanceService, verification *services.VerificationService, storage *services.StorageService) *ProductHandler {
	return &ProductHandler{
		registry:     registry,
		provenance:   provenance,
		verification: verification,
		storage:      storage,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.registry.GetAllProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	page := utils.PageSlice(products, params)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(page, int64(len(products)), params))
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.registry.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// GET /products/mine
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	products, err := h.registry.GetProductsByArtisan(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	var req services.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	result, err := h.registry.AddProduct(c.Request.Context(), wallet, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	product, err := h.registry.UpdateProduct(c.Request.Context(), wallet, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	wallet, ok := utils.GetWalletFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Wallet session required")
		return
	}

	if err := h.registry.RemoveProduct(c.Request.Context(), wallet, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// GET /products/:id/provenance
func (h *ProductHandler) GetProvenance(c *gin.Context) {
	record, err := h.provenance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, record)
}

// POST /products/:id/verify (admin only)
func (h *ProductHandler) VerifyProduct(c *gin.Context) {
	actor := c.GetString("session_subject")
	if actor == "" {
		utils.UnauthorizedResponse(c, "Admin session required")
		return
	}

	product, err := h.verification.VerifyProduct(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/images
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
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

	result, err := h.storage.UploadImage(file, header, h.storage.GetDefaultUploadOptions("products"))
	if err != nil {
		utils.BadRequestResponse(c, "Upload failed", err.Error())
		return
	}

	utils.CreatedResponse(c, result)
}
