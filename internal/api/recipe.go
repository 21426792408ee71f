package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matboka/matboka-backend/internal/draft"
	"github.com/matboka/matboka-backend/internal/middleware"
	"github.com/matboka/matboka-backend/internal/service"
	"github.com/matboka/matboka-backend/internal/types"
)

type RecipeHandler struct {
	svc         service.IRecipeService
	pipeline    *service.ImagePipeline
	authService middleware.TokenValidator
}

func NewRecipeHandler(svc service.IRecipeService, pipeline *service.ImagePipeline, authService middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{
		svc:         svc,
		pipeline:    pipeline,
		authService: authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/recent", h.RecentRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/scaled", h.ScaledRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		recipes, err := h.svc.SearchRecipes(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search recipes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": recipes})
		return
	}

	recipes, err := h.svc.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) RecentRecipes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recipes, err := h.svc.RecentRecipes(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	recipe, err := h.svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, "fetch", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// ScaledRecipe returns the portion-scaled view. A missing or zero
// portions query requests the baseline (multiplier 1) view.
func (h *RecipeHandler) ScaledRecipe(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}
	portions, _ := strconv.Atoi(c.Query("portions"))
	view, err := h.svc.ScaleRecipe(c.Request.Context(), id, portions)
	if err != nil {
		respondError(c, "fetch", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	d, img, err := h.readSubmission(c, true)
	if err != nil {
		respondError(c, "add", err)
		return
	}

	claims := middleware.ClaimsFromContext(c)
	recipe, err := h.svc.CommitCreate(c.Request.Context(), claims, d, img)
	if err != nil {
		respondError(c, "add", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	d, img, err := h.readSubmission(c, false)
	if err != nil {
		respondError(c, "update", err)
		return
	}

	claims := middleware.ClaimsFromContext(c)
	recipe, err := h.svc.CommitUpdate(c.Request.Context(), claims, id, d, img)
	if err != nil {
		respondError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	if err := h.svc.DeleteRecipe(c.Request.Context(), claims, id); err != nil {
		respondError(c, "delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
		"id":      id,
	})
}

// readSubmission parses a multipart create/update submission: the
// "payload" JSON part, the optional "image" file, and the optional
// crop region fields. The image runs through the acquisition pipeline
// before anything is persisted.
func (h *RecipeHandler) readSubmission(c *gin.Context, imageRequired bool) (*draft.Draft, *service.NormalizedImage, error) {
	payload := c.PostForm("payload")
	if payload == "" {
		return nil, nil, &types.ValidationError{Fields: []string{"missing payload"}}
	}

	var req types.RecipePayload
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, nil, &types.ValidationError{Fields: []string{"malformed payload: " + err.Error()}}
	}

	d, err := draft.FromPayload(&req)
	if err != nil {
		return nil, nil, err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if imageRequired {
			return nil, nil, &types.ValidationError{Fields: []string{"a hero image is required"}}
		}
		return d, nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, &types.ImageProcessingError{Op: "read", Err: err}
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, &types.ImageProcessingError{Op: "read", Err: err}
	}

	img, err := h.pipeline.Acquire(raw, cropRegionFromForm(c))
	if err != nil {
		return nil, nil, err
	}
	return d, img, nil
}

// cropRegionFromForm returns the confirmed crop region, or nil when
// the user kept the image uncropped.
func cropRegionFromForm(c *gin.Context) *service.CropRegion {
	w, errW := strconv.Atoi(c.PostForm("crop_width"))
	h, errH := strconv.Atoi(c.PostForm("crop_height"))
	if errW != nil || errH != nil {
		return nil
	}
	x, _ := strconv.Atoi(c.PostForm("crop_x"))
	y, _ := strconv.Atoi(c.PostForm("crop_y"))
	return &service.CropRegion{X: x, Y: y, Width: w, Height: h}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
