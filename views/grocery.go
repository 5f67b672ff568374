package views

import (
	"fmt"

	"mealprep"
)

type GroceryFilter string

const (
	GroceryAll       GroceryFilter = "all"
	GroceryPending   GroceryFilter = "pending"
	GroceryPurchased GroceryFilter = "purchased"
)

func ParseGroceryFilter(s string) (GroceryFilter, error) {
	switch f := GroceryFilter(s); f {
	case GroceryAll, GroceryPending, GroceryPurchased:
		return f, nil
	case "":
		return GroceryAll, nil
	}
	return "", fmt.Errorf("unknown grocery filter %q", s)
}

// FilterGroceries keeps the items matching f. Unknown filters keep everything.
func FilterGroceries(items []mealprep.GroceryItem, f GroceryFilter) []mealprep.GroceryItem {
	switch f {
	case GroceryPending:
		return filter(items, func(it mealprep.GroceryItem) bool { return !it.Purchased })
	case GroceryPurchased:
		return filter(items, func(it mealprep.GroceryItem) bool { return it.Purchased })
	}
	return filter(items, func(mealprep.GroceryItem) bool { return true })
}

func ByAisle(items []mealprep.GroceryItem) []Group[mealprep.GroceryItem] {
	return GroupBy(items, func(it mealprep.GroceryItem) string { return it.Aisle })
}

// GroceryTotals summarises a shopping list.
type GroceryTotals struct {
	Total     float64
	Spent     float64
	Pending   int
	Purchased int
}

func SumGroceries(items []mealprep.GroceryItem) GroceryTotals {
	var t GroceryTotals
	for _, it := range items {
		t.Total += it.EstimatedCost
		if it.Purchased {
			t.Spent += it.EstimatedCost
			t.Purchased++
		} else {
			t.Pending++
		}
	}
	return t
}
