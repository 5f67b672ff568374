package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeGet struct{ provider mealprep.RecipeProvider }

func NewRecipeGet(provider mealprep.RecipeProvider) *RecipeGet {
	return &RecipeGet{provider: provider}
}

func (t *RecipeGet) Name() string  { return "recipe_get" }
func (t *RecipeGet) Title() string { return "Get Recipe" }
func (t *RecipeGet) Description() string {
	return "Gets one recipe by id with its ingredients, instructions and nutrition. Looks the id up in the bundled catalog when no API key is set or the request fails."
}

func (t *RecipeGet) InputSchema() *jsonschema.Schema {
	one := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id": {Type: "integer", Minimum: &one},
		},
		Required: []string{"id"},
	}
}

func (t *RecipeGet) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"source": {Type: "string"},
			"recipe": recipeSchema(),
		},
		Required: []string{"source", "recipe"},
	}
}

func (t *RecipeGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	id := intInput(input, "id")
	if id <= 0 {
		return nil, errors.New("id must be a positive integer")
	}

	type output struct {
		Source string          `json:"source"`
		Recipe mealprep.Recipe `json:"recipe"`
	}

	if t.provider.HasAPIKey() {
		r, err := t.provider.ByID(ctx, id)
		if err == nil {
			return toMap(output{Source: "provider", Recipe: r})
		}
		slog.Warn("RECIPES: Recipe lookup failed, using bundled catalog", "id", id, "error", err)
	}

	for _, r := range t.provider.MockRecipes() {
		if r.ID == id {
			return toMap(output{Source: "mock", Recipe: r})
		}
	}
	return nil, fmt.Errorf("recipe %d: %w", id, ErrRecipeNotFound)
}
