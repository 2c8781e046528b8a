package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pageza/recipeshare/backend/internal/model"
	"github.com/pageza/recipeshare/backend/internal/service"
)

// fixtureFile is the layout of a seed file
type fixtureFile struct {
	Recipes []fixtureRecipe `yaml:"recipes"`
}

type fixtureRecipe struct {
	Title       *string  `yaml:"title"`
	Description *string  `yaml:"description"`
	Ingredients []string `yaml:"ingredients"`
	Steps       []string `yaml:"steps"`
}

func (f fixtureRecipe) input() model.RecipeInput {
	return model.RecipeInput{
		Title:       f.Title,
		Description: f.Description,
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
	}
}

// loadFixtures reads recipe inputs from a YAML seed file
func loadFixtures(path string) ([]model.RecipeInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return parseFixtures(f)
}

func parseFixtures(r io.Reader) ([]model.RecipeInput, error) {
	var file fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	inputs := make([]model.RecipeInput, 0, len(file.Recipes))
	for _, rec := range file.Recipes {
		inputs = append(inputs, rec.input())
	}
	return inputs, nil
}

// seed creates every input through the service. Rejected entries are logged and counted;
// the first store failure stops the run.
func seed(ctx context.Context, svc service.IRecipeService, inputs []model.RecipeInput, logger *slog.Logger) (int, error) {
	created, rejected := 0, 0
	for i, in := range inputs {
		recipe, createErr := svc.CreateRecipe(ctx, in)
		if errors.Is(createErr, service.ErrValidation) {
			rejected++
			logger.Warn("skipping seed entry", "index", i, "error", createErr)
			continue
		}
		if createErr != nil {
			return created, fmt.Errorf("seed entry %d: %w", i, createErr)
		}
		created++
		logger.Debug("seeded recipe", "id", recipe.ID, "title", recipe.Title)
	}

	if rejected > 0 {
		return created, fmt.Errorf("%d of %d seed entries rejected", rejected, len(inputs))
	}
	return created, nil
}
