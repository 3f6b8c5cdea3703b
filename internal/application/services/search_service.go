package services

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/entities"
	"github.com/lumamarket/LocalMarketDiscovery/internal/domain/geo"
	"github.com/lumamarket/LocalMarketDiscovery/internal/infrastructure/observability"
	apperrors "github.com/lumamarket/LocalMarketDiscovery/pkg/errors"
)

// RadiusStepKm is the fixed increment applied by the caller-driven
// "expand search" retry.
const RadiusStepKm = 10.0

// SearchState drives UI state for an in-flight search. A location failure is
// never a failed state; it is handled upstream by substituting a fallback
// coordinate before Search is invoked.
type SearchState string

const (
	SearchStateIdle      SearchState = "idle"
	SearchStateSearching SearchState = "searching"
	SearchStateSucceeded SearchState = "succeeded"
	SearchStateFailed    SearchState = "failed"
)

// DiscoveryIndex is the orchestrator's view of the item working set.
type DiscoveryIndex interface {
	Query(spec entities.FilterSpec) []entities.IndexedItem
}

// SearchService is the top-level discovery entry point: given a search
// location and a filter spec it queries the index, annotates distances,
// applies the radius cut and sorts the results. Results are computed entirely
// from the arguments, so concurrent searches with different specs are safe;
// only the observable state slot is shared.
type SearchService struct {
	index   DiscoveryIndex
	metrics *observability.Metrics
	state   atomic.Value
}

// NewSearchService creates a search service. metrics may be nil.
func NewSearchService(index DiscoveryIndex, metrics *observability.Metrics) *SearchService {
	s := &SearchService{index: index, metrics: metrics}
	s.state.Store(SearchStateIdle)
	return s
}

// State returns the most recent search transition. The slot is shared across
// the whole service, not tracked per call: with overlapping searches the last
// transition wins, which is what a single-screen UI polling one indicator
// wants. Callers needing a per-call outcome already have Search's error
// return.
func (s *SearchService) State() SearchState {
	return s.state.Load().(SearchState)
}

type rankedCandidate struct {
	item       entities.DiscoverableItem
	distanceKm float64
	sequence   uint64
}

// Search returns the ordered, distance-annotated results for the given
// location and spec. A malformed spec or an out-of-range location is a
// contract violation and fails fast; an empty result list is a success.
func (s *SearchService) Search(ctx context.Context, location entities.SearchLocation, spec entities.FilterSpec) ([]entities.RankedResult, error) {
	s.state.Store(SearchStateSearching)
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	if err := spec.Validate(); err != nil {
		s.state.Store(SearchStateFailed)
		observability.RecordError(span, err)
		return nil, err
	}
	if !location.Coordinate.Valid() {
		s.state.Store(SearchStateFailed)
		err := apperrors.NewInvalidCoordinateError(fmt.Sprintf(
			"invalid search location %q: lat=%f lon=%f",
			location.Label, location.Coordinate.Latitude, location.Coordinate.Longitude))
		observability.RecordError(span, err)
		return nil, err
	}

	candidates := s.index.Query(spec)

	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		d, err := geo.DistanceKm(location.Coordinate, c.Item.Coordinate())
		if err != nil {
			// An unreachable item coordinate indicates an upstream data bug.
			s.state.Store(SearchStateFailed)
			observability.RecordError(span, err)
			return nil, err
		}
		if d > spec.RadiusKm {
			continue
		}
		ranked = append(ranked, rankedCandidate{item: c.Item, distanceKm: d, sequence: c.Sequence})
	}

	sortRanked(ranked, spec.SortBy)

	results := make([]entities.RankedResult, len(ranked))
	for i, r := range ranked {
		results[i] = entities.RankedResult{Item: r.item, DistanceKm: r.distanceKm}
	}

	observability.SetSpanAttributes(span,
		attribute.Int("search.candidates", len(candidates)),
		attribute.Int("search.results", len(results)),
		attribute.Float64("search.radius_km", spec.RadiusKm),
	)
	observability.RecordSearchMetric(ctx, s.metrics, string(spec.SortBy), len(results), time.Since(start))

	s.state.Store(SearchStateSucceeded)
	return results, nil
}

// ExpandRadius returns a copy of the spec with the radius grown by one step.
// The retry itself stays caller-driven so the search radius never balloons
// silently.
func (s *SearchService) ExpandRadius(spec entities.FilterSpec) entities.FilterSpec {
	return spec.WithRadius(spec.RadiusKm + RadiusStepKm)
}

// sortRanked orders candidates per the requested sort. Every ordering breaks
// remaining ties by item id so repeated searches over an unchanged index
// return identical order.
func sortRanked(ranked []rankedCandidate, sortBy entities.SortOrder) {
	less := byDistance
	switch sortBy {
	case entities.SortByDate:
		less = byDate
	case entities.SortByPriceLow:
		less = byPriceAsc
	case entities.SortByPriceHigh:
		less = byPriceDesc
	case entities.SortByNewest:
		less = byNewest
	}
	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
}

func byDistance(a, b rankedCandidate) bool {
	if a.distanceKm != b.distanceKm {
		return a.distanceKm < b.distanceKm
	}
	return a.item.ID() < b.item.ID()
}

// byDate sorts dated events first in ascending start order; listings and
// undated events group after them, by distance.
func byDate(a, b rankedCandidate) bool {
	aStart, aDated := startDate(a.item)
	bStart, bDated := startDate(b.item)
	if aDated != bDated {
		return aDated
	}
	if aDated && !aStart.Equal(bStart) {
		return aStart.Before(bStart)
	}
	return byDistance(a, b)
}

func startDate(item entities.DiscoverableItem) (time.Time, bool) {
	if item.Kind == entities.KindEvent && !item.Event.StartDate.IsZero() {
		return item.Event.StartDate, true
	}
	return time.Time{}, false
}

// byPriceAsc sorts listings by ascending price; events, having no unambiguous
// price, group after all listings, internally by distance.
func byPriceAsc(a, b rankedCandidate) bool {
	aListing := a.item.Kind == entities.KindListing
	bListing := b.item.Kind == entities.KindListing
	if aListing != bListing {
		return aListing
	}
	if aListing && a.item.Listing.Price != b.item.Listing.Price {
		return a.item.Listing.Price < b.item.Listing.Price
	}
	return byDistance(a, b)
}

func byPriceDesc(a, b rankedCandidate) bool {
	aListing := a.item.Kind == entities.KindListing
	bListing := b.item.Kind == entities.KindListing
	if aListing != bListing {
		return aListing
	}
	if aListing && a.item.Listing.Price != b.item.Listing.Price {
		return a.item.Listing.Price > b.item.Listing.Price
	}
	return byDistance(a, b)
}

// byNewest sorts by descending index insertion sequence.
func byNewest(a, b rankedCandidate) bool {
	if a.sequence != b.sequence {
		return a.sequence > b.sequence
	}
	return a.item.ID() < b.item.ID()
}
