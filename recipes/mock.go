package recipes

import (
	"context"

	"mealprep"
)

// MockRecipes returns a fresh copy of the bundled catalog.
func MockRecipes() []mealprep.Recipe {
	return []mealprep.Recipe{
		{
			ID:             1,
			Title:          "Mediterranean Quinoa Bowl",
			Image:          "https://images.pexels.com/photos/1640777/pexels-photo-1640777.jpeg?auto=compress&cs=tinysrgb&w=400",
			ReadyInMinutes: 25,
			Servings:       4,
			Summary:        "A healthy and delicious Mediterranean-inspired quinoa bowl packed with fresh vegetables and protein.",
			Instructions: []string{
				"Cook quinoa according to package instructions",
				"Prepare vegetables and protein",
				"Assemble bowl with quinoa as base",
				"Top with vegetables and dressing",
			},
			ExtendedIngredients: []mealprep.Ingredient{
				{ID: 1, Name: "quinoa", Amount: 1, Unit: "cup", Original: "1 cup quinoa", Image: "quinoa.jpg", Aisle: "Grains"},
				{ID: 2, Name: "cherry tomatoes", Amount: 2, Unit: "cups", Original: "2 cups cherry tomatoes", Image: "cherry-tomatoes.jpg", Aisle: "Produce"},
			},
			Nutrition:       &mealprep.Nutrition{Calories: 420, Protein: 18, Fat: 12, Carbohydrates: 58, Fiber: 8, Sugar: 6, Sodium: 380},
			Diets:           []string{"vegetarian", "gluten free"},
			DishTypes:       []string{"lunch", "main course"},
			Cuisines:        []string{"Mediterranean"},
			Score:           95,
			PricePerServing: 3.25,
		},
		{
			ID:             2,
			Title:          "Grilled Chicken with Roasted Vegetables",
			Image:          "https://images.pexels.com/photos/2338407/pexels-photo-2338407.jpeg?auto=compress&cs=tinysrgb&w=400",
			ReadyInMinutes: 35,
			Servings:       4,
			Summary:        "Perfectly grilled chicken breast served with a colorful array of roasted seasonal vegetables.",
			Instructions: []string{
				"Preheat grill and oven",
				"Season chicken breast",
				"Prepare vegetables for roasting",
				"Grill chicken and roast vegetables",
				"Serve hot",
			},
			ExtendedIngredients: []mealprep.Ingredient{
				{ID: 3, Name: "chicken breast", Amount: 4, Unit: "pieces", Original: "4 chicken breast pieces", Image: "chicken-breast.jpg", Aisle: "Meat"},
			},
			Nutrition:       &mealprep.Nutrition{Calories: 380, Protein: 42, Fat: 8, Carbohydrates: 28, Fiber: 6, Sugar: 12, Sodium: 420},
			Diets:           []string{"gluten free"},
			DishTypes:       []string{"dinner", "main course"},
			Cuisines:        []string{"American"},
			Score:           88,
			PricePerServing: 4.50,
		},
		{
			ID:             3,
			Title:          "Avocado Toast with Poached Egg",
			Image:          "https://images.pexels.com/photos/566566/pexels-photo-566566.jpeg?auto=compress&cs=tinysrgb&w=400",
			ReadyInMinutes: 15,
			Servings:       2,
			Summary:        "A simple yet satisfying breakfast featuring creamy avocado on toasted bread topped with a perfectly poached egg.",
			Instructions: []string{
				"Toast bread slices",
				"Prepare avocado mash",
				"Poach eggs",
				"Assemble toast with avocado and egg",
				"Season and serve",
			},
			ExtendedIngredients: []mealprep.Ingredient{
				{ID: 4, Name: "avocado", Amount: 2, Unit: "pieces", Original: "2 ripe avocados", Image: "avocado.jpg", Aisle: "Produce"},
			},
			Nutrition:       &mealprep.Nutrition{Calories: 320, Protein: 14, Fat: 22, Carbohydrates: 24, Fiber: 12, Sugar: 2, Sodium: 280},
			Diets:           []string{"vegetarian"},
			DishTypes:       []string{"breakfast", "brunch"},
			Cuisines:        []string{"American"},
			Score:           82,
			PricePerServing: 2.75,
		},
	}
}

// Mock is a RecipeProvider backed only by the bundled catalog. It reports no
// API key so callers always take the offline path.
type Mock struct{}

var _ mealprep.RecipeProvider = Mock{}

func (Mock) HasAPIKey() bool { return false }

func (Mock) Search(context.Context, mealprep.SearchParams) ([]mealprep.Recipe, error) {
	return nil, ErrUnauthenticated
}

func (Mock) Random(context.Context, int, string) ([]mealprep.Recipe, error) {
	return nil, ErrUnauthenticated
}

func (Mock) ByID(context.Context, int) (mealprep.Recipe, error) {
	return mealprep.Recipe{}, ErrUnauthenticated
}

func (Mock) ByIngredients(context.Context, []string, int) ([]mealprep.Recipe, error) {
	return nil, ErrUnauthenticated
}

func (Mock) MockRecipes() []mealprep.Recipe { return MockRecipes() }
