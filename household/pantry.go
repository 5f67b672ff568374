package household

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"mealprep"
)

// NewPantryItem is the input for adding a pantry item. An empty
// ExpirationDate means the item does not expire.
type NewPantryItem struct {
	Name           string
	Amount         int
	Unit           string
	ExpirationDate string
	Category       string
}

// AddPantryItem appends an item added on today's date. An amount below one is
// stored as one. The category must be one of PantryCategories, matched without
// regard to case; an empty category is "Other".
func (h *Household) AddPantryItem(ctx context.Context, in NewPantryItem, today time.Time) (mealprep.PantryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return mealprep.PantryItem{}, ErrEmptyName
	}
	if in.ExpirationDate != "" {
		if _, err := time.Parse(mealprep.DateLayout, in.ExpirationDate); err != nil {
			return mealprep.PantryItem{}, fmt.Errorf("expiration date %q: %w", in.ExpirationDate, err)
		}
	}

	category, err := pantryCategory(in.Category)
	if err != nil {
		return mealprep.PantryItem{}, err
	}
	amount := in.Amount
	if amount < 1 {
		amount = 1
	}

	item := mealprep.PantryItem{
		ID:             h.newID(),
		Name:           name,
		Amount:         amount,
		Unit:           in.Unit,
		ExpirationDate: in.ExpirationDate,
		Category:       category,
		AddedDate:      today.Format(mealprep.DateLayout),
	}
	h.Pantry.Update(ctx, func(items []mealprep.PantryItem) []mealprep.PantryItem {
		return append(slices.Clone(items), item)
	})
	return item, nil
}

func (h *Household) RemovePantryItem(ctx context.Context, id string) error {
	if !slices.ContainsFunc(h.Pantry.Get(), pantryWithID(id)) {
		return fmt.Errorf("remove pantry item %q: %w", id, ErrNotFound)
	}

	h.Pantry.Update(ctx, func(items []mealprep.PantryItem) []mealprep.PantryItem {
		return slices.DeleteFunc(slices.Clone(items), pantryWithID(id))
	})
	return nil
}

// SetPantryAmount sets the amount of an item. An amount of zero or less
// removes the item instead.
func (h *Household) SetPantryAmount(ctx context.Context, id string, amount int) error {
	if amount <= 0 {
		return h.RemovePantryItem(ctx, id)
	}
	if !slices.ContainsFunc(h.Pantry.Get(), pantryWithID(id)) {
		return fmt.Errorf("set pantry amount %q: %w", id, ErrNotFound)
	}

	h.Pantry.Update(ctx, func(items []mealprep.PantryItem) []mealprep.PantryItem {
		out := slices.Clone(items)
		for i := range out {
			if out[i].ID == id {
				out[i].Amount = amount
			}
		}
		return out
	})
	return nil
}

// AdjustPantryAmount adds delta to the item's amount, removing the item when
// the result is zero or less.
func (h *Household) AdjustPantryAmount(ctx context.Context, id string, delta int) error {
	i := slices.IndexFunc(h.Pantry.Get(), pantryWithID(id))
	if i < 0 {
		return fmt.Errorf("adjust pantry amount %q: %w", id, ErrNotFound)
	}
	return h.SetPantryAmount(ctx, id, h.Pantry.Get()[i].Amount+delta)
}

func pantryCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Other", nil
	}
	for _, c := range PantryCategories {
		if strings.EqualFold(c, name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

func pantryWithID(id string) func(mealprep.PantryItem) bool {
	return func(it mealprep.PantryItem) bool { return it.ID == id }
}
