// Package handlers contains the gin HTTP handlers. Handlers bind and
// validate the wire format, delegate to the models, and translate model
// errors into responses.
package handlers

import (
	"net/http"

	apperrors "github.com/TallyCrew/tally-crew-backend/errors"
	"github.com/TallyCrew/tally-crew-backend/logger"
	"github.com/TallyCrew/tally-crew-backend/types"
	"github.com/gin-gonic/gin"
)

// handleModelError writes the error response for an error returned by the
// model layer.
func handleModelError(c *gin.Context, err error) {
	log := logger.GetLogger()

	var response types.ErrorResponse
	var statusCode int

	switch e := err.(type) {
	case *apperrors.AppError:
		response.Code = string(e.Type)
		response.Message = e.Message
		response.Error = e.Detail
		statusCode = e.GetHTTPStatus()
	default:
		log.Errorw("Unexpected error from model", "error", err)
		response.Code = string(apperrors.ServerError)
		response.Message = "An unexpected error occurred"
		response.Error = "Internal server error"
		statusCode = http.StatusInternalServerError
	}

	if !c.Writer.Written() {
		c.JSON(statusCode, response)
	}
	c.Abort()
}

// bindError attaches a validation AppError for a failed request binding.
func bindError(c *gin.Context, err error) {
	log := logger.GetLogger()
	if err := c.Error(apperrors.ValidationFailed("invalid_request_payload", err.Error())); err != nil {
		log.Errorw("Failed to set error in context", "error", err)
	}
}
