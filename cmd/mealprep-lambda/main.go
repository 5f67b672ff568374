package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"mealprep"
	"mealprep/household"
	"mealprep/planner"
	"mealprep/recipes"
	"mealprep/store"
	"mealprep/tools"
	"mealprep/views"
)

// Params selects a tool to run. An empty Tool generates the weekly plan.
type Params struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input"`
}

type Results struct {
	Output any `json:"output"`
}

type planSummary struct {
	Plan            mealprep.MealPlan `json:"plan"`
	HouseholdSize   int               `json:"household_size"`
	WeeklyCost      float64           `json:"weekly_cost"`
	AveragePrepTime float64           `json:"average_prep_time"`
	Filled          int               `json:"filled"`
}

func main() {
	var logConfig mealprep.LogConfig
	if err := envdecode.Decode(&logConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}
	slog.SetDefault(mealprep.NewLogger(logConfig, os.Stderr))

	fn := func(ctx context.Context, params Params) (Results, error) {
		var storageConfig mealprep.StorageConfig
		if err := envdecode.Decode(&storageConfig); err != nil {
			return Results{}, fmt.Errorf("failed to decode storage config: %w", err)
		}
		var recipeConfig mealprep.RecipeConfig
		if err := envdecode.Decode(&recipeConfig); err != nil {
			return Results{}, fmt.Errorf("failed to decode recipe config: %w", err)
		}
		if storageConfig.S3Bucket == "" {
			return Results{}, fmt.Errorf("missing S3 config: MEALPREP_S3_BUCKET must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		backend := store.NewS3(s3.NewFromConfig(awsCfg), storageConfig.S3Bucket, storageConfig.S3Prefix)

		h := household.Open(ctx, backend, nil)
		slog.Info("SETUP: Household state loaded from S3", "bucket", storageConfig.S3Bucket)

		client := recipes.NewClient(recipes.ClientOpts{
			BaseURL:    recipeConfig.BaseURL,
			APIKey:     recipeConfig.APIKey,
			HTTPClient: &http.Client{Timeout: recipeConfig.Timeout},
		})
		if recipeConfig.APIKey == "" {
			h.BindAPIKey(client)
		}

		var provider mealprep.RecipeProvider = client
		otelConfig, err := mealprep.LoadOtelConfig()
		if err != nil {
			return Results{}, fmt.Errorf("failed to decode otel config: %w", err)
		}
		if otelConfig.Enabled {
			tracerProvider, meterProvider, otelShutdown, err := mealprep.InitOtel(ctx, otelConfig)
			if err != nil {
				slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
				return Results{}, err
			}
			defer func() {
				if err := otelShutdown(ctx); err != nil {
					slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
				}
			}()
			provider = recipes.NewInstrumentedProvider(client,
				tracerProvider.Tracer(mealprep.TracerNameRecipes),
				meterProvider.Meter(mealprep.TracerNameRecipes))
		}

		if params.Tool != "" {
			tool, err := tools.NewRegistry(h, provider, nil).GetTool(params.Tool)
			if err != nil {
				return Results{}, err
			}
			out, err := tool.Run(ctx, params.Input)
			if err != nil {
				slog.Error("RESULT: Tool failed", "tool", params.Tool, "error", err)
				return Results{}, err
			}
			return Results{Output: out}, nil
		}

		size := h.Size.Get()
		plan := planner.Generate(ctx, provider, planner.Options{
			DietaryRestrictions: h.DietaryRestrictions.Get(),
			MealPrepTime:        h.Preferences.Get().MealPrepTime,
			Logger:              mealprep.NewStdoutGenerationLogger(),
		})

		return Results{Output: planSummary{
			Plan:            plan,
			HouseholdSize:   size,
			WeeklyCost:      views.WeeklyCost(plan, size),
			AveragePrepTime: views.AveragePrepTime(plan),
			Filled:          plan.Filled(),
		}}, nil
	}

	lambda.Start(fn)
}
