package domain

import (
	"context"
	"time"
)

// VisibilityUnavailable is the sentinel reported when a provider omits
// visibility data.
const VisibilityUnavailable = "N/A"

// Location is a resolved place. Immutable once created.
type Location struct {
	Name   string  `json:"name"`
	Region string  `json:"region,omitempty"` // US state or country
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// CurrentWeather is the canonical current-conditions record derived from one
// provider fetch.
type CurrentWeather struct {
	Location      Location  `json:"location"`
	Temperature   int       `json:"temperature"` // °F
	FeelsLike     int       `json:"feels_like"`  // °F
	Humidity      int       `json:"humidity"`    // percent
	Pressure      string    `json:"pressure"`    // inHg, 2 decimals
	Visibility    string    `json:"visibility"`  // miles, 1 decimal, or "N/A"
	WindSpeed     int       `json:"wind_speed"`  // mph
	WindDirection int       `json:"wind_direction"`
	Description   string    `json:"description"`
	Icon          IconKind  `json:"icon,omitempty"`
	WeatherCode   int       `json:"weather_code"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// ForecastDay is one day of a chronological forecast, at most five per fetch.
type ForecastDay struct {
	Date        time.Time `json:"date"`
	High        int       `json:"high"` // °F
	Low         int       `json:"low"`  // °F
	Description string    `json:"description"`
	Icon        IconKind  `json:"icon,omitempty"`
	WeatherCode int       `json:"weather_code"`
}

// Severity is the three-bucket alert severity shared by all providers.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// AlertOrigin distinguishes live provider alerts from locally synthesized
// demonstration alerts.
type AlertOrigin string

const (
	OriginLive      AlertOrigin = "live"
	OriginSynthetic AlertOrigin = "synthetic"
)

// Alert is a weather warning, either fetched or synthesized.
type Alert struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Areas       []string    `json:"areas"`
	Tags        []string    `json:"tags"`
	Origin      AlertOrigin `json:"origin"`
}

// WeatherSource is the gateway contract implemented by each provider adapter.
// All fetches return canonical values; implementations must not leak raw
// provider schemas past this boundary.
type WeatherSource interface {
	// CurrentByCity fetches current conditions via the provider's own city
	// search. The returned Location carries the provider's resolved place.
	CurrentByCity(ctx context.Context, city string) (CurrentWeather, error)

	// CurrentByCoords fetches current conditions for a coordinate pair.
	CurrentByCoords(ctx context.Context, lat, lon float64) (CurrentWeather, error)

	// Forecast fetches up to five days of daily forecast, chronological.
	Forecast(ctx context.Context, lat, lon float64) ([]ForecastDay, error)

	// Alerts fetches active weather alerts for a coordinate pair.
	Alerts(ctx context.Context, lat, lon float64) ([]Alert, error)

	// Configured reports whether a usable API key is present. Callers must
	// check this before issuing metered requests.
	Configured() bool

	// CheckReachability issues a lightweight canary request and reports
	// whether the provider answered. It never returns an error.
	CheckReachability(ctx context.Context) bool
}

// IconKind is the category an icon mapper resolves a condition code into.
type IconKind string

const (
	IconThunderstorm IconKind = "thunderstorm"
	IconRain         IconKind = "rain"
	IconSnow         IconKind = "snow"
	IconFog          IconKind = "fog"
	IconClearDay     IconKind = "clear-day"
	IconClearNight   IconKind = "clear-night"
	IconCloudy       IconKind = "cloudy"
	IconUnknown      IconKind = "unknown"
)

// IconFor maps a provider condition code to an icon category. It accepts both
// code spaces: OpenWeatherMap ids (2xx-8xx) and WeatherAPI.com condition
// codes (1000+).
func IconFor(code int, isDay bool) IconKind {
	switch {
	case code >= 200 && code < 300:
		return IconThunderstorm
	case code >= 300 && code < 600:
		return IconRain
	case code >= 600 && code < 700:
		return IconSnow
	case code >= 700 && code < 800:
		return IconFog
	case code == 800:
		if isDay {
			return IconClearDay
		}
		return IconClearNight
	case code > 800 && code < 900:
		return IconCloudy
	}

	switch {
	case code == 1000:
		if isDay {
			return IconClearDay
		}
		return IconClearNight
	case code == 1003 || code == 1006 || code == 1009:
		return IconCloudy
	case code == 1030 || code == 1135 || code == 1147:
		return IconFog
	case code == 1087 || (code >= 1273 && code <= 1282):
		return IconThunderstorm
	case code == 1066 || code == 1069 || code == 1114 || code == 1117,
		code >= 1204 && code <= 1237,
		code >= 1249 && code <= 1264:
		return IconSnow
	case code >= 1063 && code <= 1246:
		return IconRain
	}

	return IconUnknown
}
