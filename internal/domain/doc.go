// Package domain holds the provider-independent weather model and the pure
// logic that projects upstream provider payloads into it.
//
// # Canonical units
//
// Every provider response is normalized into a single unit system before it
// leaves the adapter layer:
//
//	Temperature, feels-like:  whole-degree Fahrenheit
//	Pressure:                 inches of mercury, formatted to 2 decimals
//	Visibility:               miles, formatted to 1 decimal, or "N/A"
//	Wind speed:               whole miles per hour
//	Wind direction:           compass degrees
//
// WeatherAPI.com already serves imperial fields (temp_f, pressure_in,
// vis_miles, wind_mph), so its normalizer only rounds and formats. The
// OpenWeatherMap variant is requested with units=imperial for temperature and
// wind but always reports pressure in hPa and visibility in meters; those are
// converted here (hPa x 0.02953, meters x 0.000621371).
//
// # Weather condition codes
//
// The canonical model keeps the provider's native condition code.
// OpenWeatherMap uses the 2xx-8xx range (2xx thunderstorm, 3xx drizzle,
// 5xx rain, 6xx snow, 7xx atmosphere, 800 clear, 80x clouds) while
// WeatherAPI.com uses a 1000+ range. [IconFor] understands both spaces and
// folds them into one icon category, so the view never branches on provider.
//
// # Alert severity
//
// Both providers funnel through the same three-bucket classification:
// a label containing "extreme" or "severe" is severe, one containing
// "moderate" is moderate, anything else is minor. WeatherAPI.com carries a
// free-text severity string; OpenWeatherMap carries a tag array, classified
// by its highest-ranking tag. When live alert data cannot be obtained,
// [SynthesizeAlerts] fabricates demonstration alerts from fixed geographic
// bounding boxes; those are stamped OriginSynthetic so downstream consumers
// can tell them apart from live data.
//
// All entities are fetch-scoped value objects, replaced wholesale on each
// refresh. Nothing in this package performs I/O.
package domain
