package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
)

const defaultFeaturedCount = 3

type RecipeFeatured struct{ provider mealprep.RecipeProvider }

func NewRecipeFeatured(provider mealprep.RecipeProvider) *RecipeFeatured {
	return &RecipeFeatured{provider: provider}
}

func (t *RecipeFeatured) Name() string  { return "recipe_featured" }
func (t *RecipeFeatured) Title() string { return "Featured Recipes" }
func (t *RecipeFeatured) Description() string {
	return "Returns a few random recipes to feature. Uses the first recipes of the bundled catalog when no API key is set or the request fails."
}

func (t *RecipeFeatured) InputSchema() *jsonschema.Schema {
	one := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"count": {Type: "integer", Minimum: &one, Description: "Number of recipes. Defaults to 3."},
		},
	}
}

func (t *RecipeFeatured) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"source":  {Type: "string"},
			"recipes": recipeListSchema(),
		},
		Required: []string{"source", "recipes"},
	}
}

func (t *RecipeFeatured) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	count := intInput(input, "count")
	if count <= 0 {
		count = defaultFeaturedCount
	}

	if t.provider.HasAPIKey() {
		found, err := t.provider.Random(ctx, count, "")
		if err == nil {
			return toMap(recipeSearchOutput{Source: "provider", Recipes: nonNil(found)})
		}
		slog.Warn("RECIPES: Random recipes failed, using bundled catalog", "error", err)
	}

	mocks := t.provider.MockRecipes()
	return toMap(recipeSearchOutput{Source: "mock", Recipes: nonNil(mocks[:min(count, len(mocks))])})
}
