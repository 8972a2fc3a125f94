package middleware

import (
	"errors"

	"airgrid-backend/internal/domain"
	"airgrid-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// httpStatusByCode maps domain failure codes to HTTP statuses.
var httpStatusByCode = map[string]int{
	"INVALID_LISTING_TYPE":    fiber.StatusBadRequest,
	"METADATA_URI_TOO_LONG":   fiber.StatusBadRequest,
	"CITY_NAME_TOO_LONG":      fiber.StatusBadRequest,
	"COUNTRY_CODE_INVALID":    fiber.StatusBadRequest,
	"INVALID_HEIGHT_RANGE":    fiber.StatusBadRequest,
	"INVALID_PRICE":           fiber.StatusBadRequest,
	"COORDINATE_OUT_OF_RANGE": fiber.StatusBadRequest,
	"LISTING_NOT_ACTIVE":      fiber.StatusConflict,
	"NOT_FOR_SALE":            fiber.StatusConflict,
	"NOT_FOR_LEASE":           fiber.StatusConflict,
	"ALREADY_EXISTS":          fiber.StatusConflict,
	"UNAUTHORIZED":            fiber.StatusForbidden,
	"NOT_FOUND":               fiber.StatusNotFound,
	"INSUFFICIENT_FUNDS":      fiber.StatusPaymentRequired,
	"FEE_OVERFLOW":            fiber.StatusInternalServerError,
}

// ErrorHandler is the global error handler. Domain errors keep their code and
// message; everything else collapses to a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		code, ok := httpStatusByCode[domainErr.Code]
		if !ok {
			code = fiber.StatusInternalServerError
		}
		return response.ErrorCode(c, domainErr.Message, code, domainErr.Code)
	}
	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
