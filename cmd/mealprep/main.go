package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"

	"mealprep"
	"mealprep/household"
	"mealprep/planner"
	"mealprep/recipes"
	"mealprep/slack"
	"mealprep/store"
	"mealprep/tools"
	"mealprep/views"
)

const usage = `usage: mealprep <command> [args] [-dump]

commands:
  plan                               generate a weekly meal plan
  featured [count]                   show a few featured recipes
  groceries [all|pending|purchased]  show the shopping list
  grocery-add <name> [amount] [unit] add an item to the shopping list
  pantry [all|expiring|expired|fresh]
                                     show the pantry with freshness
  pantry-add <name> [amount] [unit] [YYYY-MM-DD] [category]
                                     add a pantry item
  tool <name> [json]                 run a tool with a JSON input object
  set-key <key>                      store the recipe API key
  alert [pantry|shopping]            post the expiring-pantry digest or the
                                     pending shopping list to Slack
  watch                              print changes made by other writers`

type app struct {
	household *household.Household
	provider  mealprep.RecipeProvider
	notifier  store.Notifier
	notify    mealprep.NotifyConfig
	out       io.Writer
	dump      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var logConfig mealprep.LogConfig
	if err := envdecode.Decode(&logConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}
	logger := mealprep.NewLogger(logConfig, os.Stderr)
	slog.SetDefault(logger)

	args, dump := splitDump(os.Args[1:])
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var storageConfig mealprep.StorageConfig
	if err := envdecode.Decode(&storageConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}
	var recipeConfig mealprep.RecipeConfig
	if err := envdecode.Decode(&recipeConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}
	var notifyConfig mealprep.NotifyConfig
	if err := envdecode.Decode(&notifyConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}
	otelConfig, err := mealprep.LoadOtelConfig()
	if err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	backend, notifier, closeBackend, err := openBackend(ctx, storageConfig, logger)
	if err != nil {
		slog.Error("SETUP: Failed to open storage", "backend", storageConfig.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			slog.Error("SETUP: Failed to close storage", "error", err)
		}
	}()
	slog.Debug("SETUP: Storage ready", "backend", storageConfig.Backend)

	h := household.Open(ctx, backend, logger)
	if recipeConfig.APIKey != "" && recipeConfig.APIKey != h.APIKey.Get() {
		h.APIKey.Set(ctx, recipeConfig.APIKey)
	}

	client := recipes.NewClient(recipes.ClientOpts{
		BaseURL:    recipeConfig.BaseURL,
		HTTPClient: &http.Client{Timeout: recipeConfig.Timeout},
		Logger:     logger,
	})
	h.BindAPIKey(client)

	var provider mealprep.RecipeProvider = client
	if otelConfig.Enabled {
		tracerProvider, meterProvider, otelShutdown, err := mealprep.InitOtel(ctx, otelConfig)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()
		provider = recipes.NewInstrumentedProvider(client,
			tracerProvider.Tracer(mealprep.TracerNameRecipes),
			meterProvider.Meter(mealprep.TracerNameRecipes))
	}

	a := &app{
		household: h,
		provider:  provider,
		notifier:  notifier,
		notify:    notifyConfig,
		out:       os.Stdout,
		dump:      dump,
	}
	if err := a.run(ctx, args); err != nil {
		slog.Error("RESULT: Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

// splitDump removes a trailing -dump flag.
func splitDump(args []string) ([]string, bool) {
	if n := len(args); n > 0 && args[n-1] == "-dump" {
		return args[:n-1], true
	}
	return args, false
}

func argOr(args []string, i int, def string) string {
	if len(args) > i {
		return args[i]
	}
	return def
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "plan":
		return a.plan(ctx)
	case "featured":
		return a.featured(ctx, argOr(args, 1, ""))
	case "groceries":
		return a.groceries(ctx, argOr(args, 1, ""))
	case "grocery-add":
		return a.groceryAdd(ctx, args[1:])
	case "pantry":
		return a.pantry(argOr(args, 1, ""))
	case "pantry-add":
		return a.pantryAdd(ctx, args[1:])
	case "tool":
		if len(args) < 2 {
			return errors.New("tool name required")
		}
		return a.tool(ctx, args[1], argOr(args, 2, "{}"))
	case "set-key":
		if len(args) < 2 {
			return errors.New("key required")
		}
		a.household.APIKey.Set(ctx, args[1])
		fmt.Fprintln(a.out, "Recipe API key saved.")
		return nil
	case "alert":
		return a.alert(ctx, argOr(args, 1, "pantry"))
	case "watch":
		return a.watch(ctx)
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}

func (a *app) plan(ctx context.Context) error {
	genLogger, cleanup, err := newGenerationLogger(sourceName(a.provider))
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush generation log", "error", err)
		}
	}()

	size := a.household.Size.Get()
	plan := planner.Generate(ctx, a.provider, planner.Options{
		DietaryRestrictions: a.household.DietaryRestrictions.Get(),
		MealPrepTime:        a.household.Preferences.Get().MealPrepTime,
		Logger:              genLogger,
	})
	if a.dump {
		mealprep.Dump(a.out, plan)
		return nil
	}

	for _, day := range mealprep.Days {
		fmt.Fprintf(a.out, "%s ($%.2f)\n", day, views.DayCost(plan, day, size))
		for _, meal := range mealprep.MealTypes {
			title := "(no recipe)"
			if r := plan.Slot(day, meal); r != nil {
				title = fmt.Sprintf("%s, %d min", r.Title, r.ReadyInMinutes)
			}
			fmt.Fprintf(a.out, "  %-9s %s\n", meal, title)
		}
	}
	fmt.Fprintf(a.out, "\nWeekly cost for %d: $%.2f\nAverage prep time: %.0f min\n",
		size, views.WeeklyCost(plan, size), views.AveragePrepTime(plan))
	return nil
}

func (a *app) featured(ctx context.Context, countArg string) error {
	input := map[string]any{}
	if countArg != "" {
		n, err := strconv.Atoi(countArg)
		if err != nil {
			return fmt.Errorf("count %q: %w", countArg, err)
		}
		input["count"] = float64(n)
	}

	out, err := tools.NewRecipeFeatured(a.provider).Run(ctx, input)
	if err != nil {
		return err
	}
	if a.dump {
		mealprep.Dump(a.out, out)
		return nil
	}

	num := func(v any) float64 { f, _ := v.(float64); return f }
	fmt.Fprintf(a.out, "Featured recipes (%s)\n", out["source"])
	list, _ := out["recipes"].([]any)
	for _, r := range list {
		m, _ := r.(map[string]any)
		fmt.Fprintf(a.out, "  %s, %.0f min, $%.2f per serving\n", m["title"], num(m["readyInMinutes"]), num(m["pricePerServing"]))
	}
	return nil
}

func (a *app) groceries(ctx context.Context, filterArg string) error {
	filter, err := views.ParseGroceryFilter(filterArg)
	if err != nil {
		return err
	}
	if a.household.SeedGroceries(ctx) {
		slog.Info("SETUP: Seeded sample shopping list")
	}

	items := a.household.Groceries.Get()
	groups := views.ByAisle(views.FilterGroceries(items, filter))
	if a.dump {
		mealprep.Dump(a.out, groups)
		return nil
	}

	for _, g := range groups {
		fmt.Fprintln(a.out, g.Label)
		for _, it := range g.Items {
			mark := " "
			if it.Purchased {
				mark = "x"
			}
			fmt.Fprintf(a.out, "  [%s] %s, %g %s ($%.2f)\n", mark, it.Name, it.Amount, it.Unit, it.EstimatedCost)
		}
	}
	t := views.SumGroceries(items)
	fmt.Fprintf(a.out, "\nTotal $%.2f, spent $%.2f, %d pending, %d purchased\n", t.Total, t.Spent, t.Pending, t.Purchased)
	return nil
}

func (a *app) groceryAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("item name required")
	}
	var amount float64
	if s := argOr(args, 1, ""); s != "" {
		var err error
		if amount, err = strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
	}

	item, err := a.household.AddGrocery(ctx, args[0], amount, argOr(args, 2, ""))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s, %g %s.\n", item.Name, item.Amount, item.Unit)
	return nil
}

func (a *app) pantryAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("item name required")
	}
	var amount int
	if s := argOr(args, 1, ""); s != "" {
		var err error
		if amount, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
	}

	item, err := a.household.AddPantryItem(ctx, household.NewPantryItem{
		Name:           args[0],
		Amount:         amount,
		Unit:           argOr(args, 2, ""),
		ExpirationDate: argOr(args, 3, ""),
		Category:       argOr(args, 4, ""),
	}, time.Now())
	if errors.Is(err, household.ErrUnknownCategory) {
		return fmt.Errorf("%w (one of: %s)", err, strings.Join(household.PantryCategories, ", "))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s, %d %s to %s.\n", item.Name, item.Amount, item.Unit, item.Category)
	return nil
}

func (a *app) pantry(filterArg string) error {
	filter, err := views.ParsePantryFilter(filterArg)
	if err != nil {
		return err
	}

	today := time.Now()
	items := a.household.Pantry.Get()
	groups := views.ByCategory(views.FilterPantry(items, filter, today))
	if a.dump {
		mealprep.Dump(a.out, groups)
		return nil
	}

	for _, g := range groups {
		fmt.Fprintln(a.out, g.Label)
		for _, it := range g.Items {
			exp := it.ExpirationDate
			if exp == "" {
				exp = "no date"
			}
			fmt.Fprintf(a.out, "  %-8s %s, %d %s (%s)\n", views.Classify(it, today), it.Name, it.Amount, it.Unit, exp)
		}
	}
	c := views.CountPantry(items, today)
	fmt.Fprintf(a.out, "\n%d expiring soon, %d expired\n", c.Expiring, c.Expired)
	return nil
}

func (a *app) tool(ctx context.Context, name, rawInput string) error {
	t, err := tools.NewRegistry(a.household, a.provider, nil).GetTool(name)
	if err != nil {
		return err
	}

	var input map[string]any
	if err := json.Unmarshal([]byte(rawInput), &input); err != nil {
		return fmt.Errorf("parse tool input: %w", err)
	}

	out, err := t.Run(ctx, input)
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	if a.dump {
		mealprep.Dump(a.out, out)
		return nil
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (a *app) alert(ctx context.Context, mode string) error {
	if mode != "pantry" && mode != "shopping" {
		return fmt.Errorf("unknown alert %q, want pantry or shopping", mode)
	}
	if a.notify.SlackWebhookURL == "" {
		return errors.New("SLACK_WEBHOOK_URL must be set")
	}
	client := slack.NewClient(a.notify.SlackWebhookURL, http.DefaultClient)

	if mode == "shopping" {
		posted, err := slack.PostShoppingList(ctx, client, a.notify.SlackChannel, a.household.Groceries.Get())
		if err != nil {
			return err
		}
		if posted {
			fmt.Fprintf(a.out, "Shopping list posted to %s.\n", a.notify.SlackChannel)
		} else {
			fmt.Fprintln(a.out, "Nothing left to buy.")
		}
		return nil
	}

	posted, err := slack.PostExpiringDigest(ctx, client, a.notify.SlackChannel, a.household.Pantry.Get(), time.Now())
	if err != nil {
		return err
	}
	if posted {
		fmt.Fprintf(a.out, "Digest posted to %s.\n", a.notify.SlackChannel)
	} else {
		fmt.Fprintln(a.out, "Nothing expiring.")
	}
	return nil
}

func (a *app) watch(ctx context.Context) error {
	if a.notifier == nil {
		return errors.New("the configured storage backend does not publish changes; use MEALPREP_STORAGE=redis")
	}

	h := a.household
	report := func(key string) func(any) {
		return func(v any) {
			if a.dump {
				mealprep.Dump(a.out, key, v)
				return
			}
			fmt.Fprintf(a.out, "%s %s changed\n", time.Now().Format(time.TimeOnly), key)
		}
	}
	observe(h.APIKey, report)
	observe(h.Size, report)
	observe(h.DietaryRestrictions, report)
	observe(h.Preferences, report)
	observe(h.Groceries, report)
	observe(h.Pantry, report)

	slog.Info("SETUP: Watching for changes")
	if err := h.Listen(ctx, a.notifier); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func observe[T any](v *store.Value[T], report func(string) func(any)) {
	fn := report(v.Key())
	v.Observe(func(val T) { fn(val) })
}

func sourceName(p mealprep.RecipeProvider) string {
	if p.HasAPIKey() {
		return planner.SourceProvider
	}
	return planner.SourceMock
}

func newGenerationLogger(source string) (mealprep.GenerationLogger, func() error, error) {
	logFilePath := mealprep.NewGenerationLogFilePath(source)
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := mealprep.NewFileGenerationLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
