package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
)

type RecipeSearch struct{ provider mealprep.RecipeProvider }

func NewRecipeSearch(provider mealprep.RecipeProvider) *RecipeSearch {
	return &RecipeSearch{provider: provider}
}

func (t *RecipeSearch) Name() string  { return "recipe_search" }
func (t *RecipeSearch) Title() string { return "Search Recipes" }
func (t *RecipeSearch) Description() string {
	return "Searches recipes by meal type, diet and maximum ready time. Uses the bundled catalog when no API key is set or the search fails."
}

func (t *RecipeSearch) InputSchema() *jsonschema.Schema {
	one := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"type":           {Type: "string", Description: "Meal or dish type, e.g. breakfast."},
			"diet":           {Type: "string", Description: "Comma separated diets."},
			"max_ready_time": {Type: "integer", Minimum: &one},
			"number":         {Type: "integer", Minimum: &one},
		},
	}
}

func (t *RecipeSearch) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"source":  {Type: "string"},
			"recipes": recipeListSchema(),
		},
		Required: []string{"source", "recipes"},
	}
}

func recipeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":              {Type: "integer"},
			"title":           {Type: "string"},
			"readyInMinutes":  {Type: "integer"},
			"pricePerServing": {Type: "number"},
		},
		Required: []string{"id", "title"},
	}
}

func recipeListSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: recipeSchema()}
}

func (t *RecipeSearch) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	params := mealprep.SearchParams{
		Type:         stringInput(input, "type"),
		Diet:         stringInput(input, "diet"),
		MaxReadyTime: intInput(input, "max_ready_time"),
		Number:       intInput(input, "number"),
	}
	if params.Number <= 0 {
		params.Number = 5
	}

	if t.provider.HasAPIKey() {
		found, err := t.provider.Search(ctx, params)
		if err == nil {
			return toMap(recipeSearchOutput{Source: "provider", Recipes: nonNil(found)})
		}
		slog.Warn("RECIPES: Search failed, using bundled catalog", "error", err)
	}

	return toMap(recipeSearchOutput{Source: "mock", Recipes: matchMock(t.provider.MockRecipes(), params)})
}

type recipeSearchOutput struct {
	Source  string            `json:"source"`
	Recipes []mealprep.Recipe `json:"recipes"`
}

// matchMock applies the type and ready-time filters to the bundled catalog.
func matchMock(mocks []mealprep.Recipe, p mealprep.SearchParams) []mealprep.Recipe {
	out := make([]mealprep.Recipe, 0, len(mocks))
	for _, r := range mocks {
		if p.MaxReadyTime > 0 && r.ReadyInMinutes > p.MaxReadyTime {
			continue
		}
		if p.Type != "" && !hasDishType(r, p.Type) {
			continue
		}
		out = append(out, r)
		if len(out) == p.Number {
			break
		}
	}
	return out
}

func hasDishType(r mealprep.Recipe, want string) bool {
	for _, dt := range r.DishTypes {
		if strings.Contains(dt, want) {
			return true
		}
	}
	return false
}

func nonNil(rs []mealprep.Recipe) []mealprep.Recipe {
	if rs == nil {
		return []mealprep.Recipe{}
	}
	return rs
}
