package handlers

import (
	"MeatFresh-Backend/domain"
	"MeatFresh-Backend/internal/utils/storage"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps service errors onto HTTP status codes. Anything not
// listed is a bad request.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrScanNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedAccess),
		errors.Is(err, domain.ErrPremiumRequired):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, storage.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrGeminiProcessingFailed),
		errors.Is(err, domain.ErrPaymentFailed),
		errors.Is(err, domain.ErrPaymentVerifyFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrSendEmail),
		errors.Is(err, domain.ErrHashPassword):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
