package recipes

import (
	"context"
	"log/slog"
	"time"

	"mealprep"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedProvider wraps a RecipeProvider with spans and request metrics.
type InstrumentedProvider struct {
	next   mealprep.RecipeProvider
	tracer trace.Tracer

	requests metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

var _ mealprep.RecipeProvider = (*InstrumentedProvider)(nil)

func NewInstrumentedProvider(next mealprep.RecipeProvider, tracer trace.Tracer, meter metric.Meter) *InstrumentedProvider {
	requests, _ := meter.Int64Counter("recipe_requests_total",
		metric.WithDescription("Total number of recipe API requests"))
	failures, _ := meter.Int64Counter("recipe_request_failures_total",
		metric.WithDescription("Total number of recipe API requests that failed"))
	duration, _ := meter.Float64Histogram("recipe_request_duration_seconds",
		metric.WithDescription("Duration of recipe API requests in seconds"))

	return &InstrumentedProvider{
		next:     next,
		tracer:   tracer,
		requests: requests,
		failures: failures,
		duration: duration,
	}
}

func (p *InstrumentedProvider) HasAPIKey() bool { return p.next.HasAPIKey() }

func (p *InstrumentedProvider) MockRecipes() []mealprep.Recipe { return p.next.MockRecipes() }

func (p *InstrumentedProvider) Search(ctx context.Context, params mealprep.SearchParams) ([]mealprep.Recipe, error) {
	ctx, span := p.tracer.Start(ctx, "RecipeProvider.Search", trace.WithAttributes(
		attribute.String("recipe.query", params.Query),
		attribute.String("recipe.type", params.Type),
		attribute.String("recipe.diet", params.Diet),
		attribute.Int("recipe.number", params.Number),
	))
	defer span.End()

	var out []mealprep.Recipe
	err := p.observe(ctx, span, "search", func() (err error) {
		out, err = p.next.Search(ctx, params)
		return err
	})
	span.SetAttributes(attribute.Int("recipe.results", len(out)))
	return out, err
}

func (p *InstrumentedProvider) Random(ctx context.Context, count int, tags string) ([]mealprep.Recipe, error) {
	ctx, span := p.tracer.Start(ctx, "RecipeProvider.Random", trace.WithAttributes(
		attribute.Int("recipe.number", count),
		attribute.String("recipe.tags", tags),
	))
	defer span.End()

	var out []mealprep.Recipe
	err := p.observe(ctx, span, "random", func() (err error) {
		out, err = p.next.Random(ctx, count, tags)
		return err
	})
	span.SetAttributes(attribute.Int("recipe.results", len(out)))
	return out, err
}

func (p *InstrumentedProvider) ByID(ctx context.Context, id int) (mealprep.Recipe, error) {
	ctx, span := p.tracer.Start(ctx, "RecipeProvider.ByID", trace.WithAttributes(
		attribute.Int("recipe.id", id),
	))
	defer span.End()

	var out mealprep.Recipe
	err := p.observe(ctx, span, "by_id", func() (err error) {
		out, err = p.next.ByID(ctx, id)
		return err
	})
	return out, err
}

func (p *InstrumentedProvider) ByIngredients(ctx context.Context, ingredients []string, number int) ([]mealprep.Recipe, error) {
	ctx, span := p.tracer.Start(ctx, "RecipeProvider.ByIngredients", trace.WithAttributes(
		attribute.StringSlice("recipe.ingredients", ingredients),
		attribute.Int("recipe.number", number),
	))
	defer span.End()

	var out []mealprep.Recipe
	err := p.observe(ctx, span, "by_ingredients", func() (err error) {
		out, err = p.next.ByIngredients(ctx, ingredients, number)
		return err
	})
	span.SetAttributes(attribute.Int("recipe.results", len(out)))
	return out, err
}

func (p *InstrumentedProvider) observe(ctx context.Context, span trace.Span, op string, call func() error) error {
	attrs := metric.WithAttributes(attribute.String("operation", op))
	p.requests.Add(ctx, 1, attrs)

	start := time.Now()
	err := call()
	p.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		p.failures.Add(ctx, 1, attrs)
		span.SetStatus(codes.Error, "recipe request failed")
		span.RecordError(err)
		slog.Warn("RECIPES: Request failed", "operation", op, "error", err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
