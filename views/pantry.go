package views

import (
	"fmt"
	"time"

	"mealprep"
)

// ExpiringWindowDays is how many days ahead an item counts as expiring soon.
const ExpiringWindowDays = 3

type Freshness string

const (
	Fresh        Freshness = "fresh"
	ExpiringSoon Freshness = "expiring"
	Expired      Freshness = "expired"
)

// Classify reports where an item's expiration date falls relative to today:
// before today is expired, today through today+3 days inclusive is expiring
// soon, anything later is fresh. Items without a readable date are fresh.
func Classify(item mealprep.PantryItem, today time.Time) Freshness {
	if item.ExpirationDate == "" {
		return Fresh
	}
	exp, err := time.Parse(mealprep.DateLayout, item.ExpirationDate)
	if err != nil {
		return Fresh
	}

	start := calendarDay(today)
	switch {
	case exp.Before(start):
		return Expired
	case !exp.After(start.AddDate(0, 0, ExpiringWindowDays)):
		return ExpiringSoon
	}
	return Fresh
}

// calendarDay drops the clock and zone of t, keeping its local calendar date.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type PantryFilter string

const (
	PantryAll      PantryFilter = "all"
	PantryExpiring PantryFilter = PantryFilter(ExpiringSoon)
	PantryExpired  PantryFilter = PantryFilter(Expired)
	PantryFresh    PantryFilter = PantryFilter(Fresh)
)

func ParsePantryFilter(s string) (PantryFilter, error) {
	switch f := PantryFilter(s); f {
	case PantryAll, PantryExpiring, PantryExpired, PantryFresh:
		return f, nil
	case "":
		return PantryAll, nil
	}
	return "", fmt.Errorf("unknown pantry filter %q", s)
}

// FilterPantry keeps the items whose classification matches f.
func FilterPantry(items []mealprep.PantryItem, f PantryFilter, today time.Time) []mealprep.PantryItem {
	if f == PantryAll || f == "" {
		return filter(items, func(mealprep.PantryItem) bool { return true })
	}
	return filter(items, func(it mealprep.PantryItem) bool {
		return Classify(it, today) == Freshness(f)
	})
}

func ByCategory(items []mealprep.PantryItem) []Group[mealprep.PantryItem] {
	return GroupBy(items, func(it mealprep.PantryItem) string { return it.Category })
}

type PantryCounts struct {
	Expiring int
	Expired  int
}

func CountPantry(items []mealprep.PantryItem, today time.Time) PantryCounts {
	var c PantryCounts
	for _, it := range items {
		switch Classify(it, today) {
		case ExpiringSoon:
			c.Expiring++
		case Expired:
			c.Expired++
		}
	}
	return c
}
