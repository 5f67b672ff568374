package tools

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
	"mealprep/household"
	"mealprep/views"
)

type PantrySuggest struct {
	household *household.Household
	provider  mealprep.RecipeProvider
	now       func() time.Time
}

func NewPantrySuggest(h *household.Household, provider mealprep.RecipeProvider, now func() time.Time) *PantrySuggest {
	return &PantrySuggest{household: h, provider: provider, now: now}
}

func (t *PantrySuggest) Name() string  { return "pantry_suggest" }
func (t *PantrySuggest) Title() string { return "Suggest Recipes From Pantry" }
func (t *PantrySuggest) Description() string {
	return "Suggests recipes that use what is already in the pantry. Expired items are left out. Ranks the bundled catalog by shared ingredients when no API key is set or the request fails."
}

func (t *PantrySuggest) InputSchema() *jsonschema.Schema {
	one := 1.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"number": {Type: "integer", Minimum: &one},
			"today": {
				Type:        "string",
				Description: "Reference date as YYYY-MM-DD. Defaults to the current date.",
			},
		},
	}
}

func (t *PantrySuggest) OutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"source":      {Type: "string"},
			"ingredients": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"recipes":     recipeListSchema(),
		},
		Required: []string{"source", "ingredients", "recipes"},
	}
}

func (t *PantrySuggest) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	today, err := todayInput(input, t.now)
	if err != nil {
		return nil, err
	}
	number := intInput(input, "number")
	if number <= 0 {
		number = 5
	}

	ingredients := make([]string, 0)
	for _, it := range t.household.Pantry.Get() {
		if views.Classify(it, today) != views.Expired {
			ingredients = append(ingredients, it.Name)
		}
	}

	type output struct {
		Source      string            `json:"source"`
		Ingredients []string          `json:"ingredients"`
		Recipes     []mealprep.Recipe `json:"recipes"`
	}

	if len(ingredients) > 0 && t.provider.HasAPIKey() {
		found, err := t.provider.ByIngredients(ctx, ingredients, number)
		if err == nil {
			return toMap(output{Source: "provider", Ingredients: ingredients, Recipes: nonNil(found)})
		}
		slog.Warn("RECIPES: Ingredient search failed, using bundled catalog", "error", err)
	}

	return toMap(output{
		Source:      "mock",
		Ingredients: ingredients,
		Recipes:     rankByPantry(t.provider.MockRecipes(), ingredients, number),
	})
}

// rankByPantry keeps the recipes sharing at least one ingredient word with the
// pantry, most shared first.
func rankByPantry(mocks []mealprep.Recipe, pantry []string, number int) []mealprep.Recipe {
	have := map[string]bool{}
	for _, name := range pantry {
		for _, w := range ingredientWords(name) {
			have[w] = true
		}
	}

	type scored struct {
		recipe mealprep.Recipe
		shared int
	}
	var ranked []scored
	for _, r := range mocks {
		shared := 0
		for _, ing := range r.ExtendedIngredients {
			if slices.ContainsFunc(ingredientWords(ing.Name), func(w string) bool { return have[w] }) {
				shared++
			}
		}
		if shared > 0 {
			ranked = append(ranked, scored{recipe: r, shared: shared})
		}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int { return cmp.Compare(b.shared, a.shared) })

	out := make([]mealprep.Recipe, 0, len(ranked))
	for _, s := range ranked[:min(number, len(ranked))] {
		out = append(out, s.recipe)
	}
	return out
}

// ingredientWords lowercases name and drops words too short to identify an
// ingredient.
func ingredientWords(name string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
