package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mealprep"
	"mealprep/views"
)

// ExpiringDigest lists expired and expiring-soon pantry items. It returns ""
// when nothing needs attention.
func ExpiringDigest(items []mealprep.PantryItem, today time.Time) string {
	expired := views.FilterPantry(items, views.PantryExpired, today)
	expiring := views.FilterPantry(items, views.PantryExpiring, today)
	if len(expired) == 0 && len(expiring) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Pantry check for %s*\n", today.Format(mealprep.DateLayout))
	section := func(title string, list []mealprep.PantryItem) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s (%d):\n", title, len(list))
		for _, it := range list {
			fmt.Fprintf(&b, "• %s, %d %s (%s)\n", it.Name, it.Amount, it.Unit, it.ExpirationDate)
		}
	}
	section("Expired", expired)
	section("Expiring soon", expiring)
	return strings.TrimRight(b.String(), "\n")
}

// ShoppingList renders the pending groceries grouped by aisle.
func ShoppingList(items []mealprep.GroceryItem) string {
	pending := views.FilterGroceries(items, views.GroceryPending)
	if len(pending) == 0 {
		return "Shopping list is empty."
	}

	totals := views.SumGroceries(items)
	var b strings.Builder
	fmt.Fprintf(&b, "*Shopping list* (%d items, $%.2f of $%.2f left)\n", totals.Pending, totals.Total-totals.Spent, totals.Total)
	for _, g := range views.ByAisle(pending) {
		fmt.Fprintf(&b, "_%s_\n", g.Label)
		for _, it := range g.Items {
			fmt.Fprintf(&b, "• %s, %g %s\n", it.Name, it.Amount, it.Unit)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// PostExpiringDigest sends the digest for items to channel. It reports false
// without posting when nothing is expiring or expired.
func PostExpiringDigest(ctx context.Context, client mealprep.SlackClient, channel string, items []mealprep.PantryItem, today time.Time) (bool, error) {
	msg := ExpiringDigest(items, today)
	if msg == "" {
		slog.Info("SLACK: Nothing expiring, skipping digest")
		return false, nil
	}
	if err := client.PostMessage(ctx, channel, msg); err != nil {
		return false, fmt.Errorf("post expiring digest: %w", err)
	}
	slog.Info("SLACK: Posted expiring digest", "channel", channel)
	return true, nil
}

// PostShoppingList sends the pending groceries to channel. It reports false
// without posting when nothing is left to buy.
func PostShoppingList(ctx context.Context, client mealprep.SlackClient, channel string, items []mealprep.GroceryItem) (bool, error) {
	if len(views.FilterGroceries(items, views.GroceryPending)) == 0 {
		slog.Info("SLACK: Nothing left to buy, skipping shopping list")
		return false, nil
	}
	if err := client.PostMessage(ctx, channel, ShoppingList(items)); err != nil {
		return false, fmt.Errorf("post shopping list: %w", err)
	}
	slog.Info("SLACK: Posted shopping list", "channel", channel)
	return true, nil
}
