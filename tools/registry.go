package tools

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"mealprep"
	"mealprep/household"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry builds every tool over one household and recipe provider. A nil
// now uses time.Now.
func NewRegistry(h *household.Household, provider mealprep.RecipeProvider, now func() time.Time) Registry {
	if now == nil {
		now = time.Now
	}
	return Registry{
		"pantry_get":      NewPantryGet(h, now),
		"pantry_suggest":  NewPantrySuggest(h, provider, now),
		"grocery_get":     NewGroceryGet(h),
		"recipe_search":   NewRecipeSearch(provider),
		"recipe_featured": NewRecipeFeatured(provider),
		"recipe_get":      NewRecipeGet(provider),
		"meal_plan_get":   NewMealPlanGet(h, provider),
	}
}

// GetTools returns all tools in the registry sorted by name
func (r Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(r))
	for _, tool := range r {
		tools = append(tools, tool)
	}
	slices.SortFunc(tools, func(a, b Tool) int { return strings.Compare(a.Name(), b.Name()) })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
