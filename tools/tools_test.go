package tools

import (
	"cmp"
	"context"
	"errors"
	"testing"
	"time"

	"mealprep"
	"mealprep/household"
	"mealprep/recipes"
	"mealprep/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

func openHousehold(t *testing.T) *household.Household {
	t.Helper()
	return household.Open(context.Background(), store.NewMemory(), nil)
}

type stubProvider struct {
	hasKey  bool
	results []mealprep.Recipe
	err     error

	got            mealprep.SearchParams
	gotCount       int
	gotID          int
	gotIngredients []string
}

func (s *stubProvider) HasAPIKey() bool { return s.hasKey }
func (s *stubProvider) Search(_ context.Context, p mealprep.SearchParams) ([]mealprep.Recipe, error) {
	s.got = p
	return s.results, s.err
}
func (s *stubProvider) Random(_ context.Context, count int, _ string) ([]mealprep.Recipe, error) {
	s.gotCount = count
	return s.results, s.err
}
func (s *stubProvider) ByID(_ context.Context, id int) (mealprep.Recipe, error) {
	s.gotID = id
	if s.err != nil || len(s.results) == 0 {
		return mealprep.Recipe{}, cmp.Or(s.err, errors.New("empty"))
	}
	return s.results[0], nil
}
func (s *stubProvider) ByIngredients(_ context.Context, ingredients []string, _ int) ([]mealprep.Recipe, error) {
	s.gotIngredients = ingredients
	return s.results, s.err
}
func (s *stubProvider) MockRecipes() []mealprep.Recipe { return recipes.MockRecipes() }

func TestRegistry(t *testing.T) {
	reg := NewRegistry(openHousehold(t), recipes.Mock{}, nil)

	var names []string
	for _, tool := range reg.GetTools() {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Title())
		assert.NotEmpty(t, tool.Description())
		require.NotNil(t, tool.InputSchema())
		require.NotNil(t, tool.OutputSchema())
		assert.Equal(t, "object", tool.OutputSchema().Type)
	}
	assert.Equal(t, []string{
		"grocery_get", "meal_plan_get", "pantry_get", "pantry_suggest",
		"recipe_featured", "recipe_get", "recipe_search",
	}, names)

	tool, err := reg.GetTool("pantry_get")
	require.NoError(t, err)
	assert.Equal(t, "pantry_get", tool.Name())

	_, err = reg.GetTool("recipe_list")
	assert.EqualError(t, err, `tool "recipe_list" not found in registry`)
}

func TestPantryGet_Run(t *testing.T) {
	tests := []struct {
		name           string
		input          map[string]any
		wantNames      []any
		wantStatuses   []any
		wantCategories []any
		wantExpiring   float64
		wantExpired    float64
	}{
		{
			name:           "all at the default clock",
			input:          map[string]any{},
			wantNames:      []any{"Canned Tomatoes", "Olive Oil", "Fresh Spinach", "Greek Yogurt"},
			wantStatuses:   []any{"fresh", "fresh", "expiring", "fresh"},
			wantCategories: []any{"Canned Goods", "Oils & Vinegars", "Produce", "Dairy"},
			wantExpiring:   1,
		},
		{
			name:           "expiring only",
			input:          map[string]any{"filter": "expiring"},
			wantNames:      []any{"Fresh Spinach"},
			wantStatuses:   []any{"expiring"},
			wantCategories: []any{"Produce"},
			wantExpiring:   1,
		},
		{
			name:           "expired with explicit date",
			input:          map[string]any{"filter": "expired", "today": "2024-01-20"},
			wantNames:      []any{"Fresh Spinach"},
			wantStatuses:   []any{"expired"},
			wantCategories: []any{"Produce"},
			wantExpired:    1,
		},
		{
			name:           "nothing expired yet",
			input:          map[string]any{"filter": "expired"},
			wantNames:      []any{},
			wantStatuses:   []any{},
			wantCategories: []any{},
			wantExpiring:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewPantryGet(openHousehold(t), fixedNow)

			out, err := tool.Run(context.Background(), tt.input)
			require.NoError(t, err)

			items, ok := out["items"].([]any)
			require.True(t, ok)
			names := make([]any, 0, len(items))
			statuses := make([]any, 0, len(items))
			for _, it := range items {
				m := it.(map[string]any)
				names = append(names, m["name"])
				statuses = append(statuses, m["status"])
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantStatuses, statuses)
			assert.Equal(t, tt.wantCategories, out["categories"])
			assert.Equal(t, tt.wantExpiring, out["expiring"])
			assert.Equal(t, tt.wantExpired, out["expired"])
		})
	}
}

func TestPantryGet_BadInput(t *testing.T) {
	tool := NewPantryGet(openHousehold(t), fixedNow)

	_, err := tool.Run(context.Background(), map[string]any{"filter": "rotten"})
	assert.Error(t, err)

	_, err = tool.Run(context.Background(), map[string]any{"today": "15/01/2024"})
	assert.Error(t, err)
}

func TestGroceryGet_Run(t *testing.T) {
	h := openHousehold(t)
	require.True(t, h.SeedGroceries(context.Background()))
	tool := NewGroceryGet(h)

	out, err := tool.Run(context.Background(), map[string]any{"filter": "pending"})
	require.NoError(t, err)

	items := out["items"].([]any)
	assert.Len(t, items, 4)
	assert.Equal(t, []any{"Meat & Seafood", "Grains & Rice", "Produce", "Bakery"}, out["aisles"])
	assert.InDelta(t, 36.40, out["total"], 1e-9)
	assert.InDelta(t, 10.97, out["spent"], 1e-9)
	assert.Equal(t, 4.0, out["pending"])
	assert.Equal(t, 2.0, out["purchased"])

	out, err = tool.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, out["items"].([]any), 6)
}

func TestGroceryGet_Empty(t *testing.T) {
	out, err := NewGroceryGet(openHousehold(t)).Run(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, out["items"])
	assert.Equal(t, 0.0, out["total"])
}

func TestRecipeSearch_Run(t *testing.T) {
	t.Run("no key uses the catalog", func(t *testing.T) {
		tool := NewRecipeSearch(&stubProvider{})
		out, err := tool.Run(context.Background(), map[string]any{"type": "breakfast"})
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		got := out["recipes"].([]any)
		require.Len(t, got, 1)
		assert.Equal(t, "Avocado Toast with Poached Egg", got[0].(map[string]any)["title"])
	})

	t.Run("catalog honours ready time", func(t *testing.T) {
		tool := NewRecipeSearch(&stubProvider{})
		out, err := tool.Run(context.Background(), map[string]any{"max_ready_time": 30.0})
		require.NoError(t, err)
		assert.Len(t, out["recipes"].([]any), 2)
	})

	t.Run("provider results", func(t *testing.T) {
		p := &stubProvider{hasKey: true, results: []mealprep.Recipe{{ID: 77, Title: "Pho"}}}
		out, err := NewRecipeSearch(p).Run(context.Background(), map[string]any{
			"type": "dinner", "diet": "vegan", "max_ready_time": 45.0, "number": 2.0,
		})
		require.NoError(t, err)
		assert.Equal(t, "provider", out["source"])
		assert.Equal(t, mealprep.SearchParams{Type: "dinner", Diet: "vegan", MaxReadyTime: 45, Number: 2}, p.got)
		assert.Equal(t, 77.0, out["recipes"].([]any)[0].(map[string]any)["id"])
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		p := &stubProvider{hasKey: true, err: recipes.ErrQuotaExceeded}
		out, err := NewRecipeSearch(p).Run(context.Background(), map[string]any{"type": "dinner"})
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Len(t, out["recipes"].([]any), 1)
	})
}

func TestMealPlanGet_Run(t *testing.T) {
	h := openHousehold(t)
	tool := NewMealPlanGet(h, recipes.Mock{})

	out, err := tool.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2.0, out["household_size"])
	assert.Equal(t, 21.0, out["filled"])
	assert.InDelta(t, 147.0, out["weekly_cost"], 1e-9)
	assert.InDelta(t, 25.0, out["average_prep_time"], 1e-9)

	slots := out["slots"].([]any)
	require.Len(t, slots, mealprep.SlotCount)
	first := slots[0].(map[string]any)
	assert.Equal(t, "Monday", first["day"])
	assert.Equal(t, "breakfast", first["meal_type"])
	assert.Equal(t, 3.0, first["recipe_id"])
	assert.InDelta(t, 5.5, first["cost"], 1e-9)

	h.Size.Set(context.Background(), 4)
	out, err = tool.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 294.0, out["weekly_cost"], 1e-9)
}

func TestRecipeFeatured_Run(t *testing.T) {
	t.Run("no key takes the first catalog recipes", func(t *testing.T) {
		p := &stubProvider{}
		out, err := NewRecipeFeatured(p).Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Len(t, out["recipes"].([]any), 3)
		assert.Zero(t, p.gotCount, "no request without a key")
	})

	t.Run("count larger than the catalog", func(t *testing.T) {
		out, err := NewRecipeFeatured(&stubProvider{}).Run(context.Background(), map[string]any{"count": 10.0})
		require.NoError(t, err)
		assert.Len(t, out["recipes"].([]any), 3)
	})

	t.Run("provider random recipes", func(t *testing.T) {
		p := &stubProvider{hasKey: true, results: []mealprep.Recipe{{ID: 5, Title: "Ramen"}}}
		out, err := NewRecipeFeatured(p).Run(context.Background(), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "provider", out["source"])
		assert.Equal(t, 3, p.gotCount)
		assert.Equal(t, "Ramen", out["recipes"].([]any)[0].(map[string]any)["title"])
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		p := &stubProvider{hasKey: true, err: recipes.ErrNetwork}
		out, err := NewRecipeFeatured(p).Run(context.Background(), map[string]any{"count": 2.0})
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Equal(t, 2, p.gotCount)
		assert.Len(t, out["recipes"].([]any), 2)
	})
}

func TestRecipeGet_Run(t *testing.T) {
	t.Run("no key looks up the catalog", func(t *testing.T) {
		p := &stubProvider{}
		out, err := NewRecipeGet(p).Run(context.Background(), map[string]any{"id": 2.0})
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		recipe := out["recipe"].(map[string]any)
		assert.Equal(t, "Grilled Chicken with Roasted Vegetables", recipe["title"])
		assert.NotEmpty(t, recipe["instructions"])
		assert.Zero(t, p.gotID)
	})

	t.Run("provider recipe", func(t *testing.T) {
		p := &stubProvider{hasKey: true, results: []mealprep.Recipe{{ID: 716429, Title: "Pasta"}}}
		out, err := NewRecipeGet(p).Run(context.Background(), map[string]any{"id": 716429.0})
		require.NoError(t, err)
		assert.Equal(t, "provider", out["source"])
		assert.Equal(t, 716429, p.gotID)
		assert.Equal(t, 716429.0, out["recipe"].(map[string]any)["id"])
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		p := &stubProvider{hasKey: true, err: recipes.ErrQuotaExceeded}
		out, err := NewRecipeGet(p).Run(context.Background(), map[string]any{"id": 3.0})
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Equal(t, 3.0, out["recipe"].(map[string]any)["id"])
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := NewRecipeGet(&stubProvider{}).Run(context.Background(), map[string]any{"id": 99.0})
		assert.ErrorIs(t, err, ErrRecipeNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NewRecipeGet(&stubProvider{}).Run(context.Background(), map[string]any{})
		assert.Error(t, err)
	})
}

func TestPantrySuggest_Run(t *testing.T) {
	t.Run("provider gets the unexpired pantry", func(t *testing.T) {
		p := &stubProvider{hasKey: true, results: []mealprep.Recipe{{ID: 8, Title: "Shakshuka"}}}
		out, err := NewPantrySuggest(openHousehold(t), p, fixedNow).Run(context.Background(), map[string]any{"today": "2024-01-20"})
		require.NoError(t, err)
		assert.Equal(t, "provider", out["source"])
		assert.Equal(t, []string{"Canned Tomatoes", "Olive Oil", "Greek Yogurt"}, p.gotIngredients)
		assert.Equal(t, []any{"Canned Tomatoes", "Olive Oil", "Greek Yogurt"}, out["ingredients"])
		assert.Len(t, out["recipes"].([]any), 1)
	})

	t.Run("no key ranks the catalog by shared ingredients", func(t *testing.T) {
		p := &stubProvider{}
		out, err := NewPantrySuggest(openHousehold(t), p, fixedNow).Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Len(t, out["ingredients"].([]any), 4)
		assert.Nil(t, p.gotIngredients)

		got := out["recipes"].([]any)
		require.Len(t, got, 1)
		assert.Equal(t, "Mediterranean Quinoa Bowl", got[0].(map[string]any)["title"])
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		p := &stubProvider{hasKey: true, err: recipes.ErrNetwork}
		out, err := NewPantrySuggest(openHousehold(t), p, fixedNow).Run(context.Background(), map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Len(t, p.gotIngredients, 4)
		assert.Len(t, out["recipes"].([]any), 1)
	})

	t.Run("empty pantry skips the provider", func(t *testing.T) {
		h := openHousehold(t)
		h.Pantry.Set(context.Background(), []mealprep.PantryItem{})
		p := &stubProvider{hasKey: true}
		out, err := NewPantrySuggest(h, p, fixedNow).Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", out["source"])
		assert.Equal(t, []any{}, out["ingredients"])
		assert.Equal(t, []any{}, out["recipes"])
		assert.Nil(t, p.gotIngredients)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := NewPantrySuggest(openHousehold(t), &stubProvider{}, fixedNow).Run(context.Background(), map[string]any{"today": "tomorrow"})
		assert.Error(t, err)
	})
}

func TestRankByPantry(t *testing.T) {
	mocks := []mealprep.Recipe{
		{ID: 1, ExtendedIngredients: []mealprep.Ingredient{{Name: "rice"}}},
		{ID: 2, ExtendedIngredients: []mealprep.Ingredient{{Name: "black beans"}, {Name: "brown rice"}}},
		{ID: 3, ExtendedIngredients: []mealprep.Ingredient{{Name: "tofu"}}},
	}

	got := rankByPantry(mocks, []string{"Jasmine Rice", "Canned Black Beans"}, 5)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 1, got[1].ID)

	assert.Len(t, rankByPantry(mocks, []string{"Jasmine Rice", "Canned Black Beans"}, 1), 1)
	assert.Empty(t, rankByPantry(mocks, []string{"Oil"}, 5))
}
