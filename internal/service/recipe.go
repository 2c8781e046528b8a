package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipeshare/backend/internal/model"
	"github.com/pageza/recipeshare/backend/internal/store"
)

const msgStoreUnavailable = "recipe storage is unavailable"

// RecipeService validates recipe requests and runs them against the store
type RecipeService struct {
	store  store.RecipeStore
	logger *slog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s store.RecipeStore, logger *slog.Logger) *RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{
		store:  s,
		logger: logger,
	}
}

// ListRecipes returns all recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, s.unavailable(ctx, "list", err)
	}
	return recipes, nil
}

// CreateRecipe validates the input and inserts a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	if in.Title == nil || isBlank(*in.Title) {
		return nil, NewError(KindValidation, "title is required")
	}

	recipe := in.NewRecipe()
	if err := s.store.Insert(ctx, recipe); err != nil {
		return nil, s.unavailable(ctx, "create", err)
	}

	s.logger.InfoContext(ctx, "recipe created", "id", recipe.ID)
	return recipe, nil
}

// UpdateRecipe applies patch to the recipe with the given id.
// A supplied title must not be blank, the same rule create enforces.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	if patch.Title != nil && isBlank(*patch.Title) {
		return nil, NewError(KindValidation, "title must not be empty")
	}

	recipeID, err := uuid.Parse(id)
	if err != nil {
		// no recipe can carry an id that does not parse
		return nil, NewError(KindNotFound, "not found")
	}

	recipe, err := s.store.UpdateByID(ctx, recipeID, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, WrapError(KindNotFound, "not found", err)
	}
	if err != nil {
		return nil, s.unavailable(ctx, "update", err)
	}

	s.logger.InfoContext(ctx, "recipe updated", "id", recipe.ID, "fields", patch.Columns())
	return recipe, nil
}

// DeleteRecipe removes the recipe if it exists. Unknown ids succeed.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if err := s.store.DeleteByID(ctx, recipeID); err != nil {
		return s.unavailable(ctx, "delete", err)
	}

	s.logger.InfoContext(ctx, "recipe deleted", "id", recipeID)
	return nil
}

// Ping reports whether the store is reachable
func (s *RecipeService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return WrapError(KindUnavailable, msgStoreUnavailable, err)
	}
	return nil
}

func (s *RecipeService) unavailable(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "recipe store failure", "op", op, "error", err)
	return WrapError(KindUnavailable, msgStoreUnavailable, err)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
