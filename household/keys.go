package household

import (
	"mealprep"
	"mealprep/store"
)

// Every persisted key of the application. Keys are declared only here.
var (
	APIKeyKey = store.NewKey("spoonacular_api_key", func() string { return "" })

	SizeKey = store.NewKey("household_size", func() int { return DefaultSize })

	DietaryRestrictionsKey = store.NewKey("dietary_restrictions", func() []string { return []string{} })

	PreferencesKey = store.NewKey("user_preferences", DefaultPreferences)

	GroceriesKey = store.NewKey("grocery_items", func() []mealprep.GroceryItem { return []mealprep.GroceryItem{} })

	PantryKey = store.NewKey("pantry_items", SeedPantry)
)

const DefaultSize = 2

// KnownKeys lists the names of all persisted keys.
func KnownKeys() []string {
	return []string{
		APIKeyKey.Name(),
		SizeKey.Name(),
		DietaryRestrictionsKey.Name(),
		PreferencesKey.Name(),
		GroceriesKey.Name(),
		PantryKey.Name(),
	}
}

func DefaultPreferences() mealprep.UserPreferences {
	return mealprep.UserPreferences{
		Budget:              100,
		CuisineTypes:        []string{},
		Allergies:           []string{},
		DislikedIngredients: []string{},
		PreferredProteins:   []string{},
		MealPrepTime:        mealprep.PrepMedium,
		CookingSkill:        mealprep.SkillIntermediate,
	}
}

// PantryCategories are the categories offered when adding a pantry item.
var PantryCategories = []string{
	"Produce", "Dairy", "Meat & Seafood", "Grains & Rice", "Canned Goods",
	"Oils & Vinegars", "Spices & Seasonings", "Frozen", "Snacks", "Other",
}

// SeedPantry is the pantry shown before the household has saved its own.
func SeedPantry() []mealprep.PantryItem {
	return []mealprep.PantryItem{
		{ID: "seed-canned-tomatoes", Name: "Canned Tomatoes", Amount: 3, Unit: "cans", ExpirationDate: "2024-12-15", Category: "Canned Goods", AddedDate: "2024-01-10"},
		{ID: "seed-olive-oil", Name: "Olive Oil", Amount: 1, Unit: "bottle", ExpirationDate: "2025-06-20", Category: "Oils & Vinegars", AddedDate: "2024-01-08"},
		{ID: "seed-fresh-spinach", Name: "Fresh Spinach", Amount: 1, Unit: "bag", ExpirationDate: "2024-01-18", Category: "Produce", AddedDate: "2024-01-15"},
		{ID: "seed-greek-yogurt", Name: "Greek Yogurt", Amount: 2, Unit: "containers", ExpirationDate: "2024-01-25", Category: "Dairy", AddedDate: "2024-01-12"},
	}
}

// SampleGroceries is the list used to populate an empty shopping list.
func SampleGroceries() []mealprep.GroceryItem {
	return []mealprep.GroceryItem{
		{ID: "sample-chicken-breast", Name: "Organic Chicken Breast", Amount: 2, Unit: "lbs", Aisle: "Meat & Seafood", EstimatedCost: 12.99, Recipes: []string{"Grilled Chicken with Roasted Vegetables"}},
		{ID: "sample-quinoa", Name: "Quinoa", Amount: 1, Unit: "bag", Aisle: "Grains & Rice", EstimatedCost: 4.99, Recipes: []string{"Mediterranean Quinoa Bowl"}},
		{ID: "sample-cherry-tomatoes", Name: "Cherry Tomatoes", Amount: 2, Unit: "containers", Aisle: "Produce", EstimatedCost: 5.98, Purchased: true, Recipes: []string{"Mediterranean Quinoa Bowl", "Avocado Toast"}},
		{ID: "sample-avocados", Name: "Avocados", Amount: 4, Unit: "pieces", Aisle: "Produce", EstimatedCost: 3.96, Recipes: []string{"Avocado Toast with Poached Egg"}},
		{ID: "sample-bread", Name: "Whole Grain Bread", Amount: 1, Unit: "loaf", Aisle: "Bakery", EstimatedCost: 3.49, Recipes: []string{"Avocado Toast with Poached Egg"}},
		{ID: "sample-eggs", Name: "Free Range Eggs", Amount: 1, Unit: "dozen", Aisle: "Dairy & Eggs", EstimatedCost: 4.99, Purchased: true, Recipes: []string{"Avocado Toast with Poached Egg"}},
	}
}
