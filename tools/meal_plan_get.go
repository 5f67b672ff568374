package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
	"mealprep/household"
	"mealprep/planner"
	"mealprep/views"
)

type MealPlanGet struct {
	household *household.Household
	provider  mealprep.RecipeProvider
}

func NewMealPlanGet(h *household.Household, provider mealprep.RecipeProvider) *MealPlanGet {
	return &MealPlanGet{household: h, provider: provider}
}

func (t *MealPlanGet) Name() string  { return "meal_plan_get" }
func (t *MealPlanGet) Title() string { return "Generate Weekly Meal Plan" }
func (t *MealPlanGet) Description() string {
	return "Generates a breakfast, lunch and dinner plan for each day of the week using the household's dietary restrictions and prep-time preference. Returns the slots, the weekly cost for the household size and the average prep time."
}

func (t *MealPlanGet) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

func (t *MealPlanGet) OutputSchema() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"slots": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"day":          {Type: "string"},
						"meal_type":    {Type: "string"},
						"recipe_id":    {Type: "integer"},
						"recipe_title": {Type: "string"},
						"ready_in":     {Type: "integer", Minimum: &zero},
						"cost":         {Type: "number", Minimum: &zero},
					},
					Required: []string{"day", "meal_type"},
				},
			},
			"household_size":    {Type: "integer", Minimum: &zero},
			"weekly_cost":       {Type: "number", Minimum: &zero},
			"average_prep_time": {Type: "number", Minimum: &zero},
			"filled":            {Type: "integer", Minimum: &zero},
		},
		Required: []string{"slots", "household_size", "weekly_cost", "average_prep_time", "filled"},
	}
}

func (t *MealPlanGet) Run(ctx context.Context, input map[string]any) (map[string]any, error) {
	size := t.household.Size.Get()
	plan := planner.Generate(ctx, t.provider, planner.Options{
		DietaryRestrictions: t.household.DietaryRestrictions.Get(),
		MealPrepTime:        t.household.Preferences.Get().MealPrepTime,
	})

	type outSlot struct {
		Day         mealprep.Day      `json:"day"`
		MealType    mealprep.MealType `json:"meal_type"`
		RecipeID    int               `json:"recipe_id,omitempty"`
		RecipeTitle string            `json:"recipe_title,omitempty"`
		ReadyIn     int               `json:"ready_in,omitempty"`
		Cost        float64           `json:"cost,omitempty"`
	}
	slots := make([]outSlot, 0, mealprep.SlotCount)
	for _, day := range mealprep.Days {
		for _, meal := range mealprep.MealTypes {
			s := outSlot{Day: day, MealType: meal}
			if r := plan.Slot(day, meal); r != nil {
				s.RecipeID = r.ID
				s.RecipeTitle = r.Title
				s.ReadyIn = r.ReadyInMinutes
				s.Cost = r.PricePerServing * float64(size)
			}
			slots = append(slots, s)
		}
	}

	return toMap(struct {
		Slots           []outSlot `json:"slots"`
		HouseholdSize   int       `json:"household_size"`
		WeeklyCost      float64   `json:"weekly_cost"`
		AveragePrepTime float64   `json:"average_prep_time"`
		Filled          int       `json:"filled"`
	}{
		Slots:           slots,
		HouseholdSize:   size,
		WeeklyCost:      views.WeeklyCost(plan, size),
		AveragePrepTime: views.AveragePrepTime(plan),
		Filled:          plan.Filled(),
	})
}
