package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	er "github.com/billingstack/namesilo/internal/errors"
)

// respondError maps error kinds to HTTP statuses. Validation failures are
// the caller's fault, registrar rejections are unprocessable, transport
// failures mean the upstream registrar is unreachable.
func respondError(c *gin.Context, err error) {
	switch {
	case er.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case er.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case er.IsRegistrarError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case er.IsTransportError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
