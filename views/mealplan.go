package views

import "mealprep"

// WeeklyCost is the price of every planned recipe scaled to the household.
// Only the Days x MealTypes cells are counted.
func WeeklyCost(plan mealprep.MealPlan, householdSize int) float64 {
	total := 0.0
	for _, day := range mealprep.Days {
		total += DayCost(plan, day, householdSize)
	}
	return total
}

func DayCost(plan mealprep.MealPlan, day mealprep.Day, householdSize int) float64 {
	total := 0.0
	for _, meal := range mealprep.MealTypes {
		if r := plan.Slot(day, meal); r != nil {
			total += r.PricePerServing * float64(householdSize)
		}
	}
	return total
}

// AveragePrepTime divides the summed ready time of planned recipes by the
// full slot count, so empty slots count as zero minutes.
func AveragePrepTime(plan mealprep.MealPlan) float64 {
	minutes := 0
	for _, day := range mealprep.Days {
		for _, meal := range mealprep.MealTypes {
			if r := plan.Slot(day, meal); r != nil {
				minutes += r.ReadyInMinutes
			}
		}
	}
	return float64(minutes) / float64(mealprep.SlotCount)
}
