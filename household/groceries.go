package household

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"mealprep"
)

func newItemID() string { return uuid.NewString() }

// AddGrocery appends a hand-entered item. Hand-entered items go to the
// "Other" aisle with no cost estimate. A non-positive amount is stored as one.
func (h *Household) AddGrocery(ctx context.Context, name string, amount float64, unit string) (mealprep.GroceryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return mealprep.GroceryItem{}, ErrEmptyName
	}
	if amount <= 0 {
		amount = 1
	}

	item := mealprep.GroceryItem{
		ID:      h.newID(),
		Name:    name,
		Amount:  amount,
		Unit:    unit,
		Aisle:   "Other",
		Recipes: []string{},
	}
	h.Groceries.Update(ctx, func(items []mealprep.GroceryItem) []mealprep.GroceryItem {
		return append(slices.Clone(items), item)
	})
	return item, nil
}

// ToggleGroceryPurchased flips the purchased flag of the item with id.
func (h *Household) ToggleGroceryPurchased(ctx context.Context, id string) error {
	if !slices.ContainsFunc(h.Groceries.Get(), groceryWithID(id)) {
		return fmt.Errorf("toggle grocery %q: %w", id, ErrNotFound)
	}

	h.Groceries.Update(ctx, func(items []mealprep.GroceryItem) []mealprep.GroceryItem {
		out := slices.Clone(items)
		for i := range out {
			if out[i].ID == id {
				out[i].Purchased = !out[i].Purchased
			}
		}
		return out
	})
	return nil
}

func (h *Household) RemoveGrocery(ctx context.Context, id string) error {
	if !slices.ContainsFunc(h.Groceries.Get(), groceryWithID(id)) {
		return fmt.Errorf("remove grocery %q: %w", id, ErrNotFound)
	}

	h.Groceries.Update(ctx, func(items []mealprep.GroceryItem) []mealprep.GroceryItem {
		return slices.DeleteFunc(slices.Clone(items), groceryWithID(id))
	})
	return nil
}

func groceryWithID(id string) func(mealprep.GroceryItem) bool {
	return func(it mealprep.GroceryItem) bool { return it.ID == id }
}

// SeedGroceries fills an empty shopping list with the sample items. It reports
// whether anything was written.
func (h *Household) SeedGroceries(ctx context.Context) bool {
	if len(h.Groceries.Get()) > 0 {
		return false
	}
	h.Groceries.Set(ctx, SampleGroceries())
	return true
}
