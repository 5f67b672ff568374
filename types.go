package mealprep

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type SlackClient interface {
	PostMessage(ctx context.Context, channel string, message string) error
}

// RecipeProvider is the recipe data source consumed by the planner and tools.
// Callers check HasAPIKey before using the network-backed calls and fall back
// to MockRecipes when it is false or when a call fails.
type RecipeProvider interface {
	HasAPIKey() bool
	Search(ctx context.Context, params SearchParams) ([]Recipe, error)
	Random(ctx context.Context, count int, tags string) ([]Recipe, error)
	ByID(ctx context.Context, id int) (Recipe, error)
	ByIngredients(ctx context.Context, ingredients []string, number int) ([]Recipe, error)
	MockRecipes() []Recipe
}

// Recipe is a record returned by the recipe provider or the mock catalog.
type Recipe struct {
	ID                  int          `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image"`
	ReadyInMinutes      int          `json:"readyInMinutes"`
	Servings            int          `json:"servings"`
	Summary             string       `json:"summary,omitempty"`
	Instructions        Instructions `json:"instructions,omitempty"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
	Nutrition           *Nutrition   `json:"nutrition,omitempty"`
	Diets               []string     `json:"diets"`
	DishTypes           []string     `json:"dishTypes"`
	Cuisines            []string     `json:"cuisines"`
	Score               float64      `json:"spoonacularScore,omitempty"`
	PricePerServing     float64      `json:"pricePerServing"`
}

// Instructions holds recipe steps. The provider sends them either as a list
// or as one block of text (sometimes HTML); a text block decodes as a single step.
type Instructions []string

func (in *Instructions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*in = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if text = strings.TrimSpace(text); text == "" {
			*in = nil
			return nil
		}
		*in = Instructions{text}
		return nil
	case len(data) > 0 && data[0] == '[':
		var steps []string
		if err := json.Unmarshal(data, &steps); err != nil {
			return err
		}
		*in = steps
		return nil
	}
	return fmt.Errorf("instructions: unexpected JSON %s", data)
}

type Ingredient struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original,omitempty"`
	Image    string  `json:"image,omitempty"`
	Aisle    string  `json:"aisle,omitempty"`
}

type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fiber         float64 `json:"fiber"`
	Sugar         float64 `json:"sugar"`
	Sodium        float64 `json:"sodium"`
}

// SearchParams filters a complex recipe search. Zero values are left out of
// the query.
type SearchParams struct {
	Query              string
	Diet               string
	Intolerances       string
	IncludeIngredients string
	ExcludeIngredients string
	Type               string
	Cuisine            string
	MaxReadyTime       int
	MinCalories        int
	MaxCalories        int
	MinProtein         int
	MaxPrice           float64
	Number             int
	Offset             int
	Sort               string
	SortDirection      string
}

// GroceryItem is one line of the shopping list.
type GroceryItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Amount        float64  `json:"amount"`
	Unit          string   `json:"unit"`
	Aisle         string   `json:"aisle"`
	EstimatedCost float64  `json:"estimatedCost"`
	Purchased     bool     `json:"purchased"`
	Recipes       []string `json:"recipes"`
}

// DateLayout is the calendar-date format used for pantry dates.
const DateLayout = "2006-01-02"

// PantryItem is one tracked pantry entry. Dates use DateLayout; an empty
// ExpirationDate means the item does not expire.
type PantryItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Amount         int    `json:"amount"`
	Unit           string `json:"unit"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	Category       string `json:"category"`
	AddedDate      string `json:"addedDate"`
}

type MealPrepTime string

const (
	PrepQuick  MealPrepTime = "quick"
	PrepMedium MealPrepTime = "medium"
	PrepLong   MealPrepTime = "long"
)

type CookingSkill string

const (
	SkillBeginner     CookingSkill = "beginner"
	SkillIntermediate CookingSkill = "intermediate"
	SkillAdvanced     CookingSkill = "advanced"
)

// UserPreferences is the household preference bundle.
type UserPreferences struct {
	Budget              float64      `json:"budget"`
	CuisineTypes        []string     `json:"cuisineTypes"`
	Allergies           []string     `json:"allergies"`
	DislikedIngredients []string     `json:"dislikedIngredients"`
	PreferredProteins   []string     `json:"preferredProteins"`
	MealPrepTime        MealPrepTime `json:"mealPrepTime"`
	CookingSkill        CookingSkill `json:"cookingSkill"`
}

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

var (
	Days      = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
	MealTypes = []MealType{Breakfast, Lunch, Dinner}
)

// SlotCount is the number of (day, meal type) cells in a weekly plan.
var SlotCount = len(Days) * len(MealTypes)

// MealPlan is the weekly day -> meal type -> recipe matrix. A nil recipe or a
// missing entry is an absent slot.
type MealPlan map[Day]map[MealType]*Recipe

// Slot returns the recipe planned for the given cell, or nil.
func (mp MealPlan) Slot(day Day, meal MealType) *Recipe {
	meals, ok := mp[day]
	if !ok {
		return nil
	}
	return meals[meal]
}

// Set places a recipe in a cell, creating the day row when needed.
func (mp MealPlan) Set(day Day, meal MealType, r *Recipe) {
	if mp[day] == nil {
		mp[day] = make(map[MealType]*Recipe, len(MealTypes))
	}
	mp[day][meal] = r
}

// Filled reports how many of the Days x MealTypes cells hold a recipe.
func (mp MealPlan) Filled() int {
	n := 0
	for _, day := range Days {
		for _, meal := range MealTypes {
			if mp.Slot(day, meal) != nil {
				n++
			}
		}
	}
	return n
}
