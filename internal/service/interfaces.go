package service

import (
	"context"

	"github.com/pageza/recipeshare/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	CreateRecipe(ctx context.Context, in model.RecipeInput) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

var _ IRecipeService = (*RecipeService)(nil)
