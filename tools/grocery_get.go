package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
	"mealprep/household"
	"mealprep/views"
)

type GroceryGet struct{ household *household.Household }

func NewGroceryGet(h *household.Household) *GroceryGet { return &GroceryGet{household: h} }

func (t *GroceryGet) Name() string  { return "grocery_get" }
func (t *GroceryGet) Title() string { return "Get Shopping List" }
func (t *GroceryGet) Description() string {
	return "Returns shopping list items, optionally filtered by purchase state, with aisle names and cost totals."
}

func (t *GroceryGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"filter": {
				Type:        "string",
				Description: "One of all, pending, purchased. Defaults to all.",
			},
		},
	}
}

func (t *GroceryGet) OutputSchema() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"items": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"id":            {Type: "string"},
						"name":          {Type: "string"},
						"amount":        {Type: "number", Minimum: &zero},
						"unit":          {Type: "string"},
						"aisle":         {Type: "string"},
						"estimatedCost": {Type: "number", Minimum: &zero},
						"purchased":     {Type: "boolean"},
						"recipes":       {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					},
					Required: []string{"id", "name", "amount", "unit", "aisle", "estimatedCost", "purchased"},
				},
			},
			"aisles":    {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"total":     {Type: "number", Minimum: &zero},
			"spent":     {Type: "number", Minimum: &zero},
			"pending":   {Type: "integer", Minimum: &zero},
			"purchased": {Type: "integer", Minimum: &zero},
		},
		Required: []string{"items", "aisles", "total", "spent", "pending", "purchased"},
	}
}

func (t *GroceryGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	filter, err := views.ParseGroceryFilter(stringInput(input, "filter"))
	if err != nil {
		return nil, err
	}

	all := t.household.Groceries.Get()
	selected := views.FilterGroceries(all, filter)
	totals := views.SumGroceries(all)

	return toMap(struct {
		Items     []mealprep.GroceryItem `json:"items"`
		Aisles    []string               `json:"aisles"`
		Total     float64                `json:"total"`
		Spent     float64                `json:"spent"`
		Pending   int                    `json:"pending"`
		Purchased int                    `json:"purchased"`
	}{
		Items:     selected,
		Aisles:    views.Labels(views.ByAisle(selected)),
		Total:     totals.Total,
		Spent:     totals.Spent,
		Pending:   totals.Pending,
		Purchased: totals.Purchased,
	})
}
