// Package household holds the persisted state of one household: the recipe
// API credential, household size, dietary restrictions, preferences, the
// shopping list and the pantry.
package household

import (
	"context"
	"errors"
	"log/slog"

	"mealprep"
	"mealprep/store"
)

var (
	ErrNotFound  = errors.New("item not found")
	ErrEmptyName = errors.New("item name is empty")

	ErrUnknownCategory = errors.New("unknown pantry category")
)

type Household struct {
	APIKey              *store.Value[string]
	Size                *store.Value[int]
	DietaryRestrictions *store.Value[[]string]
	Preferences         *store.Value[mealprep.UserPreferences]
	Groceries           *store.Value[[]mealprep.GroceryItem]
	Pantry              *store.Value[[]mealprep.PantryItem]

	log   *slog.Logger
	newID func() string
}

// Open loads every household key from b. Missing or unreadable keys start at
// their defaults; nothing is written until the first mutation.
func Open(ctx context.Context, b store.Backend, log *slog.Logger) *Household {
	if log == nil {
		log = slog.Default()
	}

	return &Household{
		APIKey:              store.Open(ctx, b, APIKeyKey, log),
		Size:                store.Open(ctx, b, SizeKey, log),
		DietaryRestrictions: store.Open(ctx, b, DietaryRestrictionsKey, log),
		Preferences:         store.Open(ctx, b, PreferencesKey, log),
		Groceries:           store.Open(ctx, b, GroceriesKey, log),
		Pantry:              store.Open(ctx, b, PantryKey, log),
		log:                 log,
		newID:               newItemID,
	}
}

// Handlers returns every value so changes from other writers can be routed to them.
func (h *Household) Handlers() []store.ChangeHandler {
	return []store.ChangeHandler{
		h.APIKey,
		h.Size,
		h.DietaryRestrictions,
		h.Preferences,
		h.Groceries,
		h.Pantry,
	}
}

// Listen adopts changes published by other writers until ctx is done.
func (h *Household) Listen(ctx context.Context, n store.Notifier) error {
	return store.Listen(ctx, n, h.Handlers()...)
}

type credentialSetter interface {
	SetAPIKey(key string)
}

// BindAPIKey pushes the stored credential into c now and on every later change.
func (h *Household) BindAPIKey(c credentialSetter) {
	c.SetAPIKey(h.APIKey.Get())
	h.APIKey.Observe(func(key string) {
		h.log.Info("SETUP: Recipe API key updated", "configured", key != "")
		c.SetAPIKey(key)
	})
}
