package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-server/internal/domain"
	"blog-server/internal/service"
)

var errBadBody = &domain.ValidationError{Fields: []domain.FieldError{{Field: "body", Message: "Invalid request body"}}}

// respondError maps domain errors onto status codes. notFound is the message used for 404s.
// Unrecognised errors are logged and reported as a bare 500.
func (h *Handler) respondError(c *gin.Context, err error, notFound string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, domain.ErrDuplicateUser):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not the owner of this blog"})
	case errors.Is(err, service.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage not configured"})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
