package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoshine/services/booking"
	"autoshine/utils"
)

// respondServiceError maps the lifecycle error taxonomy onto HTTP
// status codes. Anything untyped is an internal failure.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case booking.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case booking.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case booking.IsStateConflict(err):
		utils.JSONError(c, http.StatusConflict, "State conflict", err.Error())
	case booking.IsPolicyViolation(err):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Policy violation", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
