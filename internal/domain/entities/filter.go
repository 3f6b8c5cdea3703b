package entities

import (
	"math"

	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

// TimeFrame restricts events to a calendar window relative to "now".
type TimeFrame string

const (
	TimeFrameAll         TimeFrame = "all"
	TimeFrameToday       TimeFrame = "today"
	TimeFrameTomorrow    TimeFrame = "tomorrow"
	TimeFrameThisWeek    TimeFrame = "this_week"
	TimeFrameThisWeekend TimeFrame = "this_weekend"
	TimeFrameNextWeek    TimeFrame = "next_week"
)

// Valid reports whether the time frame is one of the known values.
func (t TimeFrame) Valid() bool {
	switch t {
	case TimeFrameAll, TimeFrameToday, TimeFrameTomorrow,
		TimeFrameThisWeek, TimeFrameThisWeekend, TimeFrameNextWeek:
		return true
	}
	return false
}

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortByDistance  SortOrder = "distance"
	SortByDate      SortOrder = "date"
	SortByPriceLow  SortOrder = "price_low"
	SortByPriceHigh SortOrder = "price_high"
	SortByNewest    SortOrder = "newest"
)

// Valid reports whether the sort order is one of the known values.
func (s SortOrder) Valid() bool {
	switch s {
	case SortByDistance, SortByDate, SortByPriceLow, SortByPriceHigh, SortByNewest:
		return true
	}
	return false
}

// PriceRange is an inclusive price interval applied to listings.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterSpec is the immutable structured description of a user's search
// constraints. A nil Category or EventType means "no constraint".
type FilterSpec struct {
	Query      string     `json:"query"`
	Category   *string    `json:"category,omitempty"`
	EventType  *string    `json:"event_type,omitempty"`
	PriceRange PriceRange `json:"price_range"`
	TimeFrame  TimeFrame  `json:"time_frame"`
	RadiusKm   float64    `json:"radius_km"`
	SortBy     SortOrder  `json:"sort_by"`
}

// DefaultFilterSpec returns an unconstrained spec with a 10 km radius,
// sorted by distance.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		PriceRange: PriceRange{Min: 0, Max: math.MaxFloat64},
		TimeFrame:  TimeFrameAll,
		RadiusKm:   10,
		SortBy:     SortByDistance,
	}
}

// Validate checks the spec invariants and fails fast on a malformed spec.
func (s FilterSpec) Validate() error {
	if s.RadiusKm <= 0 {
		return apperrors.NewInvalidFilterSpecError("radius must be positive")
	}
	if s.PriceRange.Min > s.PriceRange.Max {
		return apperrors.NewInvalidFilterSpecError("price range minimum exceeds maximum")
	}
	if s.PriceRange.Min < 0 {
		return apperrors.NewInvalidFilterSpecError("price range minimum must be non-negative")
	}
	if !s.TimeFrame.Valid() {
		return apperrors.NewInvalidFilterSpecError("unknown time frame: " + string(s.TimeFrame))
	}
	if !s.SortBy.Valid() {
		return apperrors.NewInvalidFilterSpecError("unknown sort order: " + string(s.SortBy))
	}
	return nil
}

// WithRadius returns a copy of the spec with a new search radius. Used by the
// caller-driven radius expansion retry.
func (s FilterSpec) WithRadius(radiusKm float64) FilterSpec {
	s.RadiusKm = radiusKm
	return s
}
