// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/store"
	"github.com/craftchain/artisan-marketplace/internal/utils"
)

// respondError maps service errors onto the HTTP surface. Every handler
// funnels failures through here so status codes stay consistent.
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	switch {
	case errors.Is(err, services.ErrDuplicateRegistration):
		utils.ConflictResponse(c, "DUPLICATE_REGISTRATION", err.Error())
	case errors.Is(err, services.ErrArtisanNotRegistered):
		utils.ErrorResponse(c, http.StatusForbidden, "ARTISAN_NOT_REGISTERED", err.Error(), nil)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoHistory):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrNotAvailable):
		utils.ConflictResponse(c, "PRODUCT_NOT_AVAILABLE", err.Error())
	case errors.Is(err, services.ErrUserRejected):
		utils.ErrorResponse(c, http.StatusBadRequest, "USER_REJECTED", err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	case errors.Is(err, services.ErrProvider), errors.Is(err, services.ErrReverted):
		utils.ErrorResponse(c, http.StatusBadGateway, "PROVIDER_ERROR", err.Error(), nil)
	case errors.Is(err, store.ErrStorageFailure):
		utils.ErrorResponse(c, http.StatusInternalServerError, "STORAGE_FAILURE", err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
