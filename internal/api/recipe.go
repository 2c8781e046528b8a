package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/model"
	"github.com/pageza/recipeshare/backend/internal/service"
)

const (
	msgInvalidBody  = "invalid request body"
	msgBodyTooLarge = "request body too large"

	// maxBodyBytes matches the 100kb default of the original JSON body parser
	maxBodyBytes = 100 << 10
)

// RecipeHandler serves the recipe collection over HTTP
type RecipeHandler struct {
	service service.IRecipeService
	logger  *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipeService service.IRecipeService, logger *slog.Logger) *RecipeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeHandler{
		service: recipeService,
		logger:  logger,
	}
}

// RegisterRoutes mounts the recipe routes on router
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

// ListRecipes returns every recipe, newest first
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.service.ListRecipes(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// CreateRecipe stores a new recipe and returns it with its id and createdAt
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in model.RecipeInput
	if err := bindJSON(c, &in); err != nil {
		h.writeBodyError(c, err)
		return
	}

	recipe, err := h.service.CreateRecipe(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces the supplied fields of an existing recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var patch model.RecipePatch
	if err := bindJSON(c, &patch); err != nil {
		h.writeBodyError(c, err)
		return
	}

	recipe, err := h.service.UpdateRecipe(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe. Unknown ids still get 204.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.service.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Health reports whether the recipe store is reachable
func (h *RecipeHandler) Health(c *gin.Context) {
	if err := h.service.Ping(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes a body holding exactly one JSON value into v. An empty body decodes as {}.
func bindJSON(c *gin.Context, v interface{}) error {
	if c.Request.Body == nil {
		return nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return err
	}
	return nil
}

func (h *RecipeHandler) writeBodyError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, middleware.ErrorResponse{Error: msgBodyTooLarge})
		return
	}
	h.writeError(c, service.WrapError(service.KindBadRequest, msgInvalidBody, err))
}

func (h *RecipeHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		switch svcErr.Kind {
		case service.KindBadRequest, service.KindValidation:
			status = http.StatusBadRequest
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindUnavailable:
			status = http.StatusServiceUnavailable
		}
	} else {
		h.logger.ErrorContext(c.Request.Context(), "unclassified handler error",
			"error", err, "request_id", middleware.RequestIDFrom(c))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, middleware.ErrorResponse{Error: message})
}
