// Package filter evaluates whether a discoverable item matches a structured
// filter specification. All stages are conjunctive.
package filter

import (
	"strings"
	"time"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/providers"
)

// Predicate matches items against filter specs. The clock is injected so that
// time-window classification is deterministic in tests.
type Predicate struct {
	clock providers.Clock
}

// NewPredicate creates a predicate. A nil clock falls back to the system clock.
func NewPredicate(clock providers.Clock) *Predicate {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	return &Predicate{clock: clock}
}

// Matches reports whether the item passes every stage of the spec: text query,
// category (listings), event type (events), price range (listings), and time
// frame (events with a start date).
func (p *Predicate) Matches(item entities.DiscoverableItem, spec entities.FilterSpec) bool {
	if !matchesQuery(item, spec.Query) {
		return false
	}
	if !matchesCategory(item, spec.Category) {
		return false
	}
	if !matchesEventType(item, spec.EventType) {
		return false
	}
	if !matchesPriceRange(item, spec.PriceRange) {
		return false
	}
	return p.matchesTimeFrame(item, spec.TimeFrame)
}

// matchesQuery does case-insensitive substring matching over title,
// description, tags, and the variant's category or event type. An empty query
// always passes.
func matchesQuery(item entities.DiscoverableItem, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	if strings.Contains(strings.ToLower(item.Title()), q) {
		return true
	}
	for _, tag := range item.Tags() {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}

	switch item.Kind {
	case entities.KindListing:
		return strings.Contains(strings.ToLower(item.Listing.Description), q) ||
			strings.Contains(strings.ToLower(item.Listing.Category), q)
	case entities.KindEvent:
		return strings.Contains(strings.ToLower(item.Event.Description), q) ||
			strings.Contains(strings.ToLower(item.Event.EventType), q)
	}
	return false
}

// matchesCategory applies to listings only; events pass unconditionally.
// Category comparison is case-sensitive and exact.
func matchesCategory(item entities.DiscoverableItem, category *string) bool {
	if category == nil || item.Kind != entities.KindListing {
		return true
	}
	return item.Listing.Category == *category
}

// matchesEventType applies to events only; listings pass unconditionally.
func matchesEventType(item entities.DiscoverableItem, eventType *string) bool {
	if eventType == nil || item.Kind != entities.KindEvent {
		return true
	}
	return item.Event.EventType == *eventType
}

// matchesPriceRange applies to listings only. Events are exempt from price
// filtering even when they carry an entry fee.
func matchesPriceRange(item entities.DiscoverableItem, pr entities.PriceRange) bool {
	if item.Kind != entities.KindListing {
		return true
	}
	return item.Listing.Price >= pr.Min && item.Listing.Price <= pr.Max
}

// matchesTimeFrame applies to events that carry a start date. Listings and
// undated events always pass.
func (p *Predicate) matchesTimeFrame(item entities.DiscoverableItem, frame entities.TimeFrame) bool {
	if frame == entities.TimeFrameAll || item.Kind != entities.KindEvent {
		return true
	}
	start := item.Event.StartDate
	if start.IsZero() {
		return true
	}

	now := p.clock.Now()
	day := startOfDay(start.In(now.Location()))
	weekStart := startOfWeek(now)

	switch frame {
	case entities.TimeFrameToday:
		return day.Equal(startOfDay(now))
	case entities.TimeFrameTomorrow:
		return day.Equal(startOfDay(now).AddDate(0, 0, 1))
	case entities.TimeFrameThisWeek:
		return !day.Before(weekStart) && day.Before(weekStart.AddDate(0, 0, 7))
	case entities.TimeFrameThisWeekend:
		// Sunday-start weeks: the window's Sunday is its first day and its
		// Saturday the last.
		return day.Equal(weekStart) || day.Equal(weekStart.AddDate(0, 0, 6))
	case entities.TimeFrameNextWeek:
		next := weekStart.AddDate(0, 0, 7)
		return !day.Before(next) && day.Before(next.AddDate(0, 0, 7))
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Sunday at or before t, at midnight.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}
