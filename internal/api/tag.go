package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matboka/matboka-backend/internal/middleware"
	"github.com/matboka/matboka-backend/internal/models"
	"github.com/matboka/matboka-backend/internal/service"
	"github.com/matboka/matboka-backend/internal/types"
)

type TagHandler struct {
	svc         service.IRecipeService
	authService middleware.TokenValidator
}

func NewTagHandler(svc service.IRecipeService, authService middleware.TokenValidator) *TagHandler {
	return &TagHandler{svc: svc, authService: authService}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.POST("", middleware.AuthMiddleware(h.authService), h.CreateTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.svc.ListTags(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req types.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := models.Tag{Name: req.Name, Slug: req.Slug}
	claims := middleware.ClaimsFromContext(c)
	if err := h.svc.CreateTag(c.Request.Context(), claims, &tag); err != nil {
		respondError(c, "tag", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}
