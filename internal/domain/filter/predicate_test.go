package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// Wednesday, March 12 2025. The surrounding Sunday-start week runs
// March 9 (Sun) through March 15 (Sat).
var testNow = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

func newTestPredicate() *Predicate {
	return NewPredicate(fixedClock{now: testNow})
}

func listing(id, title, category string, price float64, tags ...string) entities.DiscoverableItem {
	return entities.NewListingItem(entities.Listing{
		ID:         id,
		Coordinate: entities.Coordinate{Latitude: 6.52, Longitude: 3.37},
		Title:      title,
		Category:   category,
		Price:      price,
		Tags:       tags,
	})
}

func event(id, title, eventType string, start time.Time, tags ...string) entities.DiscoverableItem {
	return entities.NewEventItem(entities.Event{
		ID:         id,
		Coordinate: entities.Coordinate{Latitude: 6.52, Longitude: 3.37},
		Title:      title,
		EventType:  eventType,
		StartDate:  start,
		Tags:       tags,
	})
}

func strptr(s string) *string { return &s }

func TestMatches_EmptyQueryPasses(t *testing.T) {
	p := newTestPredicate()
	spec := entities.DefaultFilterSpec()
	spec.Query = "   "
	assert.True(t, p.Matches(listing("1", "Vintage Bicycle", "sports", 120), spec))
}

func TestMatches_QuerySubstringFields(t *testing.T) {
	p := newTestPredicate()

	cases := []struct {
		name  string
		item  entities.DiscoverableItem
		query string
		want  bool
	}{
		{"title", listing("1", "Vintage Bicycle", "sports", 120), "BICYCLE", true},
		{"tag", listing("2", "Road bike", "sports", 300, "carbon", "racing"), "carbon", true},
		{"listing category", listing("3", "Old map", "collectibles", 15), "collect", true},
		{"event type", event("4", "Morning run", "sports_meetup", testNow), "meetup", true},
		{"no match", listing("5", "Garden chair", "furniture", 40), "bicycle", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := entities.DefaultFilterSpec()
			spec.Query = tc.query
			assert.Equal(t, tc.want, p.Matches(tc.item, spec))
		})
	}
}

func TestMatches_QueryDescription(t *testing.T) {
	p := newTestPredicate()
	item := entities.NewListingItem(entities.Listing{
		ID:          "1",
		Title:       "Chair",
		Description: "Solid oak, barely used",
		Category:    "furniture",
		Coordinate:  entities.Coordinate{Latitude: 1, Longitude: 1},
	})
	spec := entities.DefaultFilterSpec()
	spec.Query = "oak"
	assert.True(t, p.Matches(item, spec))
}

func TestMatches_CategoryListingsOnly(t *testing.T) {
	p := newTestPredicate()
	spec := entities.DefaultFilterSpec()
	spec.Category = strptr("books")

	assert.True(t, p.Matches(listing("1", "Go in practice", "books", 10), spec))
	assert.False(t, p.Matches(listing("2", "Hammer", "tools", 10), spec))
	// Case-sensitive exact match.
	assert.False(t, p.Matches(listing("3", "Novel", "Books", 10), spec))
	// Events are unaffected by the category constraint.
	assert.True(t, p.Matches(event("4", "Book fair", "fair", testNow), spec))
}

func TestMatches_EventTypeEventsOnly(t *testing.T) {
	p := newTestPredicate()
	spec := entities.DefaultFilterSpec()
	spec.EventType = strptr("concert")

	assert.True(t, p.Matches(event("1", "Jazz night", "concert", testNow), spec))
	assert.False(t, p.Matches(event("2", "Flea market", "market", testNow), spec))
	// Listings are unaffected by the event type constraint.
	assert.True(t, p.Matches(listing("3", "Guitar", "music", 250), spec))
}

func TestMatches_PriceRangeListingsOnly(t *testing.T) {
	p := newTestPredicate()
	spec := entities.DefaultFilterSpec()
	spec.PriceRange = entities.PriceRange{Min: 10, Max: 100}

	assert.False(t, p.Matches(listing("1", "Sticker", "misc", 5), spec))
	assert.True(t, p.Matches(listing("2", "Lamp", "misc", 50), spec))
	assert.False(t, p.Matches(listing("3", "Sofa", "misc", 500), spec))
	// Boundary values are inclusive.
	assert.True(t, p.Matches(listing("4", "Mug", "misc", 10), spec))
	assert.True(t, p.Matches(listing("5", "Desk", "misc", 100), spec))
	// Events are exempt from price filtering.
	assert.True(t, p.Matches(event("6", "Paid workshop", "workshop", testNow), spec))
}

func TestMatches_TimeFrames(t *testing.T) {
	p := newTestPredicate()

	day := func(d int, hour int) time.Time {
		return time.Date(2025, time.March, d, hour, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name  string
		frame entities.TimeFrame
		start time.Time
		want  bool
	}{
		{"today matches same calendar day", entities.TimeFrameToday, day(12, 23), true},
		{"today rejects tomorrow", entities.TimeFrameToday, day(13, 0), false},
		{"tomorrow matches next day", entities.TimeFrameTomorrow, day(13, 9), true},
		{"tomorrow rejects today", entities.TimeFrameTomorrow, day(12, 9), false},
		{"this week includes Sunday start", entities.TimeFrameThisWeek, day(9, 8), true},
		{"this week includes Saturday end", entities.TimeFrameThisWeek, day(15, 22), true},
		{"this week rejects next Sunday", entities.TimeFrameThisWeek, day(16, 8), false},
		{"weekend matches the week's Saturday", entities.TimeFrameThisWeekend, day(15, 10), true},
		{"weekend matches the week's Sunday", entities.TimeFrameThisWeekend, day(9, 10), true},
		{"weekend rejects a weekday", entities.TimeFrameThisWeekend, day(12, 10), false},
		{"next week matches following window", entities.TimeFrameNextWeek, day(18, 10), true},
		{"next week rejects this week", entities.TimeFrameNextWeek, day(12, 10), false},
		{"next week rejects week after next", entities.TimeFrameNextWeek, day(23, 10), false},
		{"all always passes", entities.TimeFrameAll, day(30, 10), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := entities.DefaultFilterSpec()
			spec.TimeFrame = tc.frame
			assert.Equal(t, tc.want, p.Matches(event("e", "Event", "any", tc.start), spec))
		})
	}
}

func TestMatches_TimeFrameIgnoresListingsAndUndatedEvents(t *testing.T) {
	p := newTestPredicate()
	spec := entities.DefaultFilterSpec()
	spec.TimeFrame = entities.TimeFrameToday

	assert.True(t, p.Matches(listing("1", "Chair", "furniture", 40), spec))
	assert.True(t, p.Matches(event("2", "Sometime", "misc", time.Time{}), spec))
}

func TestMatches_Conjunction(t *testing.T) {
	p := newTestPredicate()
	spec := entities.DefaultFilterSpec()
	spec.Query = "bike"
	spec.Category = strptr("sports")
	spec.PriceRange = entities.PriceRange{Min: 100, Max: 400}

	// Passes all stages.
	assert.True(t, p.Matches(listing("1", "Road bike", "sports", 300), spec))
	// Fails exactly one stage each.
	assert.False(t, p.Matches(listing("2", "Road skates", "sports", 300), spec))
	assert.False(t, p.Matches(listing("3", "Road bike", "vehicles", 300), spec))
	assert.False(t, p.Matches(listing("4", "Road bike", "sports", 50), spec))
}
