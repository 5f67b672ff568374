// Package planner builds a weekly meal plan one slot at a time from a recipe
// provider, falling back to the bundled catalog when no credential is set.
package planner

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"mealprep"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	SourceProvider = "provider"
	SourceMock     = "mock"
)

type Options struct {
	DietaryRestrictions []string
	MealPrepTime        mealprep.MealPrepTime
	// Logger receives one record per slot. Nil discards them.
	Logger mealprep.GenerationLogger
	// Rand picks the fallback mock recipe. Nil uses the global source.
	Rand *rand.Rand
}

// MaxReadyTime maps a prep-time preference to a search limit in minutes.
// Zero means no limit.
func MaxReadyTime(p mealprep.MealPrepTime) int {
	switch p {
	case mealprep.PrepQuick:
		return 30
	case mealprep.PrepMedium:
		return 60
	}
	return 0
}

// Generate fills every day and meal type. A slot whose lookup fails or
// returns nothing is left empty; the remaining slots are still attempted.
func Generate(ctx context.Context, provider mealprep.RecipeProvider, opts Options) mealprep.MealPlan {
	tracer := otel.Tracer(mealprep.TracerNamePlanner)
	ctx, span := tracer.Start(ctx, "planner.Generate", trace.WithAttributes(
		attribute.Bool("planner.has_api_key", provider.HasAPIKey()),
		attribute.String("planner.meal_prep_time", string(opts.MealPrepTime)),
	))
	defer span.End()

	logger := opts.Logger
	if logger == nil {
		logger = mealprep.NewNoOpGenerationLogger()
	}

	plan := make(mealprep.MealPlan, len(mealprep.Days))
	for _, day := range mealprep.Days {
		for _, meal := range mealprep.MealTypes {
			r, source, err := pick(ctx, provider, meal, opts)

			entry := mealprep.SlotLog{
				Day:       day,
				MealType:  meal,
				Timestamp: time.Now(),
				Source:    source,
			}
			if err != nil {
				entry.Error = err.Error()
				slog.Warn("PLANNER: Failed to fill slot", "day", day, "meal_type", meal, "error", err)
				span.AddEvent("slot failed", trace.WithAttributes(
					attribute.String("day", string(day)),
					attribute.String("meal_type", string(meal)),
				))
			}
			if r != nil {
				entry.RecipeID = r.ID
				entry.RecipeTitle = r.Title
			}
			if lerr := logger.LogSlot(entry); lerr != nil {
				slog.Warn("PLANNER: Failed to record slot", "error", lerr)
			}

			plan.Set(day, meal, r)
		}
	}

	filled := plan.Filled()
	span.SetAttributes(attribute.Int("planner.filled_slots", filled))
	if filled == 0 {
		span.SetStatus(codes.Error, "no slots filled")
	}
	slog.Info("PLANNER: Generated meal plan", "filled", filled, "slots", mealprep.SlotCount)

	return plan
}

func pick(ctx context.Context, provider mealprep.RecipeProvider, meal mealprep.MealType, opts Options) (*mealprep.Recipe, string, error) {
	if !provider.HasAPIKey() {
		return pickMock(provider.MockRecipes(), meal, opts.Rand), SourceMock, nil
	}

	found, err := provider.Search(ctx, mealprep.SearchParams{
		Type:         string(meal),
		Diet:         strings.Join(opts.DietaryRestrictions, ","),
		Number:       1,
		MaxReadyTime: MaxReadyTime(opts.MealPrepTime),
	})
	if err != nil {
		return nil, SourceProvider, err
	}
	if len(found) == 0 {
		return nil, SourceProvider, nil
	}
	return &found[0], SourceProvider, nil
}

// pickMock returns the first recipe with a dish type containing the meal
// type, or a random one when none match.
func pickMock(mocks []mealprep.Recipe, meal mealprep.MealType, rng *rand.Rand) *mealprep.Recipe {
	if len(mocks) == 0 {
		return nil
	}
	for i := range mocks {
		for _, dt := range mocks[i].DishTypes {
			if strings.Contains(dt, string(meal)) {
				return &mocks[i]
			}
		}
	}

	var n int
	if rng != nil {
		n = rng.IntN(len(mocks))
	} else {
		n = rand.IntN(len(mocks))
	}
	return &mocks[n]
}
