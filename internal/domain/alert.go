package domain

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Synthetic alert validity windows, matching the demonstration semantics:
// a tornado watch is short-lived, a hurricane watch covers the 48-hour
// approach window.
const (
	tornadoWatchValidity   = 6 * time.Hour
	hurricaneWatchValidity = 48 * time.Hour
)

// ClassifySeverity maps an upstream severity label to the three-bucket
// severity. The match is a case-insensitive substring test so it holds for
// any provider vocabulary: "SEVERE", "Severe Weather" and "extreme heat" all
// classify as severe. An empty or unrecognized label is minor.
func ClassifySeverity(label string) Severity {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "extreme") || strings.Contains(l, "severe"):
		return SeveritySevere
	case strings.Contains(l, "moderate"):
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// ClassifyTags classifies a tag array by its highest-ranking entry. Used for
// providers that report severity as tags rather than a single label.
func ClassifyTags(tags []string) Severity {
	result := SeverityMinor
	for _, tag := range tags {
		if s := ClassifySeverity(tag); severityRank(s) > severityRank(result) {
			result = s
		}
	}
	return result
}

func severityRank(s Severity) int {
	switch s {
	case SeveritySevere:
		return 2
	case SeverityModerate:
		return 1
	default:
		return 0
	}
}

// InTornadoCorridor reports whether the coordinate falls in the fixed
// central-plains box (roughly Texas through Kansas).
func InTornadoCorridor(lat, lon float64) bool {
	return lat >= 32 && lat <= 40 && lon >= -103 && lon <= -94
}

// InHurricaneZone reports whether the coordinate falls in either the
// southeast-Atlantic or Gulf-coast box. The boxes are checked independently
// and are not mutually exclusive.
func InHurricaneZone(lat, lon float64) bool {
	return (lat >= 25 && lat <= 35 && lon >= -85 && lon <= -75) ||
		(lat >= 25 && lat <= 30 && lon >= -95 && lon <= -85)
}

// SynthesizeAlerts fabricates demonstration alerts from geographic
// heuristics. Validity windows start at the package clock's current time.
// Every synthesized alert carries OriginSynthetic.
func SynthesizeAlerts(lat, lon float64) []Alert {
	now := clock.Now()
	var alerts []Alert

	if InTornadoCorridor(lat, lon) {
		alerts = append(alerts, Alert{
			Title:       "Tornado Watch",
			Description: "Conditions are favorable for tornado development. Stay alert and be prepared to take shelter.",
			Severity:    SeveritySevere,
			Start:       now,
			End:         now.Add(tornadoWatchValidity),
			Areas:       []string{"Central Plains"},
			Tags:        []string{"Severe", "Tornado"},
			Origin:      OriginSynthetic,
		})
	}

	if InHurricaneZone(lat, lon) {
		alerts = append(alerts, Alert{
			Title:       "Hurricane Watch",
			Description: "Hurricane conditions possible within 48 hours. Prepare for strong winds and heavy rain.",
			Severity:    SeveritySevere,
			Start:       now,
			End:         now.Add(hurricaneWatchValidity),
			Areas:       []string{"Atlantic Coast"},
			Tags:        []string{"Severe", "Hurricane"},
			Origin:      OriginSynthetic,
		})
	}

	return alerts
}

// AlertFetcher is the subset of WeatherSource needed for alert retrieval.
type AlertFetcher interface {
	Alerts(ctx context.Context, lat, lon float64) ([]Alert, error)
}

// FetchOrSynthesize attempts a live alert fetch and falls back to geographic
// synthesis on any failure or empty result. It never returns an error:
// alerts are best-effort and the fallback exists for demo continuity.
func FetchOrSynthesize(ctx context.Context, src AlertFetcher, lat, lon float64, logger *slog.Logger) []Alert {
	if src != nil {
		alerts, err := src.Alerts(ctx, lat, lon)
		if err == nil && len(alerts) > 0 {
			return alerts
		}
		if err != nil {
			logger.Warn("live alert fetch failed, synthesizing from geography",
				"lat", lat,
				"lon", lon,
				"error", err,
			)
		}
	}
	return SynthesizeAlerts(lat, lon)
}
