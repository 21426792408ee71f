package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matboka/matboka-backend/internal/types"
)

// respondError maps workflow errors onto HTTP statuses. Storage
// failures are reported as a single retryable notification naming the
// operation; the failing step stays in the server log only.
func respondError(c *gin.Context, op string, err error) {
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	var imageErr *types.ImageProcessingError
	if errors.As(err, &imageErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": imageErr.Error()})
		return
	}

	var notFoundErr *types.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	if errors.Is(err, types.ErrReadOnlyCapability) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to modify recipes"})
		return
	}

	var storageErr *types.StorageWriteError
	if errors.As(err, &storageErr) {
		log.Printf("[API] %s failed at step %s: %v", op, storageErr.Step, storageErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op + " recipe, please try again"})
		return
	}

	log.Printf("[API] %s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op + " recipe, please try again"})
}
