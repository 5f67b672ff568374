package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep/household"
	"mealprep/views"
)

type PantryGet struct {
	household *household.Household
	now       func() time.Time
}

func NewPantryGet(h *household.Household, now func() time.Time) *PantryGet {
	return &PantryGet{household: h, now: now}
}

func (t *PantryGet) Name() string  { return "pantry_get" }
func (t *PantryGet) Title() string { return "Get Pantry (with freshness)" }
func (t *PantryGet) Description() string {
	return "Returns pantry items with their freshness status, optionally filtered, plus the category names and expiring/expired counts."
}

func (t *PantryGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"filter": {
				Type:        "string",
				Description: "One of all, expiring, expired, fresh. Defaults to all.",
			},
			"today": {
				Type:        "string",
				Description: "Reference date as YYYY-MM-DD. Defaults to the current date.",
			},
		},
	}
}

func (t *PantryGet) OutputSchema() *jsonschema.Schema {
	minAmount := 0.0
	minCount := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"items": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"id":              {Type: "string"},
						"name":            {Type: "string"},
						"amount":          {Type: "integer", Minimum: &minAmount},
						"unit":            {Type: "string"},
						"category":        {Type: "string"},
						"expiration_date": {Type: "string"},
						"status":          {Type: "string"},
					},
					Required: []string{"id", "name", "amount", "unit", "category", "status"},
				},
			},
			"categories": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"expiring":   {Type: "integer", Minimum: &minCount},
			"expired":    {Type: "integer", Minimum: &minCount},
		},
		Required: []string{"items", "categories", "expiring", "expired"},
	}
}

func (t *PantryGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	filter, err := views.ParsePantryFilter(stringInput(input, "filter"))
	if err != nil {
		return nil, err
	}

	today, err := todayInput(input, t.now)
	if err != nil {
		return nil, err
	}

	type outItem struct {
		ID             string          `json:"id"`
		Name           string          `json:"name"`
		Amount         int             `json:"amount"`
		Unit           string          `json:"unit"`
		Category       string          `json:"category"`
		ExpirationDate string          `json:"expiration_date,omitempty"`
		Status         views.Freshness `json:"status"`
	}
	out := struct {
		Items      []outItem `json:"items"`
		Categories []string  `json:"categories"`
		Expiring   int       `json:"expiring"`
		Expired    int       `json:"expired"`
	}{
		Items: make([]outItem, 0),
	}

	all := t.household.Pantry.Get()
	selected := views.FilterPantry(all, filter, today)
	for _, it := range selected {
		out.Items = append(out.Items, outItem{
			ID:             it.ID,
			Name:           it.Name,
			Amount:         it.Amount,
			Unit:           it.Unit,
			Category:       it.Category,
			ExpirationDate: it.ExpirationDate,
			Status:         views.Classify(it, today),
		})
	}
	out.Categories = views.Labels(views.ByCategory(selected))

	counts := views.CountPantry(all, today)
	out.Expiring, out.Expired = counts.Expiring, counts.Expired

	return toMap(out)
}
