package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/agency-functions/internal/models"
)

// writeError traduce un error de servicio al sobre {success:false, error, code}.
// Los rechazos de token son 401; todo lo demás es 400.
func (api *API) writeError(c *gin.Context, err error) {
	status, code, message := classify(err)

	entry := api.logger.WithError(err).WithField("code", code)
	if code == models.ErrorCodeInternal || code == models.ErrorCodeIntegrity || code == models.ErrorCodeStorageFailure {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}

	c.JSON(status, models.NewErrorResponse(code, message))
}

func classify(err error) (int, models.ErrorCode, string) {
	switch {
	case errors.Is(err, models.ErrInvalidOrExpired):
		return http.StatusUnauthorized, models.ErrorCodeInvalidOrExpired, "Invalid or expired token"
	case errors.Is(err, models.ErrAlreadyUsed):
		return http.StatusUnauthorized, models.ErrorCodeAlreadyUsed, "This login link has already been used"
	case errors.Is(err, models.ErrExpired):
		return http.StatusUnauthorized, models.ErrorCodeExpired, "This login link has expired"
	case errors.Is(err, models.ErrMissingInput):
		return http.StatusBadRequest, models.ErrorCodeMissingInput, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusBadRequest, models.ErrorCodeNotFound, err.Error()
	case errors.Is(err, models.ErrIntegrity):
		return http.StatusBadRequest, models.ErrorCodeIntegrity, "Referenced record is missing"
	case errors.Is(err, models.ErrStorageFailure):
		return http.StatusBadRequest, models.ErrorCodeStorageFailure, "Failed to store invoice PDF"
	default:
		return http.StatusBadRequest, models.ErrorCodeInternal, "Internal error"
	}
}
