// Package locate resolves free-text city names and raw coordinates into
// canonical locations, using a small built-in city table before deferring to
// the weather gateway's own city search.
package locate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/skycastapp/skycast/internal/domain"
)

// Continental-US bounding box used to reject GPS coordinates before any
// network call is spent on them.
const (
	usMinLat = 24.4
	usMaxLat = 49.4
	usMinLon = -125.0
	usMaxLon = -66.9
)

// maxNearestDegrees bounds the nearest-city scan. Straight-line coordinate
// distance, no geodesic correction; 3 degrees is roughly 200 miles at
// mid-US latitudes. Beyond it the table has no useful answer.
const maxNearestDegrees = 3.0

// maxSuggestions caps Suggest output.
const maxSuggestions = 5

// ErrGPSUnavailable is returned when no geolocation capability was wired in.
var ErrGPSUnavailable = errors.New("geolocation capability unavailable")

// Geolocator is the injected browser geolocation capability: a single-shot
// position query. Implementations fail with domain.ErrPermissionDenied when
// the user refuses.
type Geolocator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// Resolver answers city-name and coordinate lookups against the built-in
// table. It performs no I/O; table misses are the caller's cue to fall
// through to the gateway's city search.
type Resolver struct {
	cities []domain.Location
}

// NewResolver creates a Resolver over the built-in city table.
func NewResolver() *Resolver {
	return &Resolver{cities: knownCities}
}

// ResolveName returns the table entry whose name matches exactly,
// case-insensitively. ok is false on a miss.
func (r *Resolver) ResolveName(name string) (domain.Location, bool) {
	name = strings.TrimSpace(name)
	for _, c := range r.cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return domain.Location{}, false
}

// Suggest returns up to five table entries whose names contain the query,
// case-insensitively. Queries shorter than two characters return nothing.
func (r *Resolver) Suggest(query string) []domain.Location {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(query) < 2 {
		return nil
	}

	var matches []domain.Location
	for _, c := range r.cities {
		if strings.Contains(strings.ToLower(c.Name), query) {
			matches = append(matches, c)
			if len(matches) == maxSuggestions {
				break
			}
		}
	}
	return matches
}

// NearestKnownCity scans the table for the closest entry by straight-line
// coordinate distance. ok is false when nothing lies within the bounded
// radius.
func (r *Resolver) NearestKnownCity(lat, lon float64) (domain.Location, bool) {
	best := domain.Location{}
	bestDist := math.Inf(1)
	for _, c := range r.cities {
		d := math.Hypot(c.Lat-lat, c.Lon-lon)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist > maxNearestDegrees {
		return domain.Location{}, false
	}
	return best, true
}

// USBoundingBox reports whether the coordinate falls inside the continental
// US rectangle.
func USBoundingBox(lat, lon float64) bool {
	return lat >= usMinLat && lat <= usMaxLat && lon >= usMinLon && lon <= usMaxLon
}

// FormatDisplay renders a location for the dashboard header: "Name, Region",
// falling back to bare coordinates when no name is known.
func FormatDisplay(loc domain.Location) string {
	if loc.Name == "" {
		return fmt.Sprintf("%.2f, %.2f", loc.Lat, loc.Lon)
	}
	if loc.Region == "" {
		return loc.Name
	}
	return fmt.Sprintf("%s, %s", loc.Name, loc.Region)
}
