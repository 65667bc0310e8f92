package openweather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skycastapp/skycast/internal/domain"
)

// Conversion factors for the fields OpenWeatherMap never serves imperial.
const (
	hPaToInHg     = 0.02953
	metersToMiles = 0.000621371
)

const forecastDayKey = "2006-01-02"

func normalizeCurrent(p currentResponse) domain.CurrentWeather {
	w := firstWeather(p.Weather)
	return domain.CurrentWeather{
		Location: domain.Location{
			Name:   p.Name,
			Region: p.Sys.Country,
			Lat:    p.Coord.Lat,
			Lon:    p.Coord.Lon,
		},
		Temperature:   round(p.Main.Temp),
		FeelsLike:     round(p.Main.FeelsLike),
		Humidity:      p.Main.Humidity,
		Pressure:      fmt.Sprintf("%.2f", p.Main.Pressure*hPaToInHg),
		Visibility:    formatVisibility(p.Visibility),
		WindSpeed:     round(p.Wind.Speed),
		WindDirection: p.Wind.Deg,
		Description:   w.Description,
		Icon:          domain.IconFor(w.ID, isDayIcon(w.Icon)),
		WeatherCode:   w.ID,
		FetchedAt:     domain.Now(),
	}
}

// groupDaily collapses the 3-hourly forecast list into daily entries: one per
// calendar date in the city's timezone, in first-appearance order, truncated
// to maxDays. The day's condition is the first entry's; high and low span all
// of the day's entries.
func groupDaily(p forecastResponse, maxDays int) []domain.ForecastDay {
	zone := time.FixedZone("city", p.City.Timezone)

	var order []string
	byDate := make(map[string]*domain.ForecastDay)

	for _, entry := range p.List {
		local := time.Unix(entry.Dt, 0).In(zone)
		key := local.Format(forecastDayKey)

		day, ok := byDate[key]
		if !ok {
			w := firstWeather(entry.Weather)
			day = &domain.ForecastDay{
				Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone),
				High:        round(entry.Main.TempMax),
				Low:         round(entry.Main.TempMin),
				Description: w.Description,
				Icon:        domain.IconFor(w.ID, true),
				WeatherCode: w.ID,
			}
			byDate[key] = day
			order = append(order, key)
			continue
		}

		if high := round(entry.Main.TempMax); high > day.High {
			day.High = high
		}
		if low := round(entry.Main.TempMin); low < day.Low {
			day.Low = low
		}
	}

	if len(order) > maxDays {
		order = order[:maxDays]
	}
	out := make([]domain.ForecastDay, 0, len(order))
	for _, key := range order {
		out = append(out, *byDate[key])
	}
	return out
}

func normalizeAlerts(p oneCallResponse) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(p.Alerts))
	for _, a := range p.Alerts {
		alerts = append(alerts, domain.Alert{
			Title:       a.Event,
			Description: a.Description,
			Severity:    domain.ClassifyTags(append([]string{a.Event}, a.Tags...)),
			Start:       time.Unix(a.Start, 0).UTC(),
			End:         time.Unix(a.End, 0).UTC(),
			Areas:       senderAreas(a.SenderName),
			Tags:        a.Tags,
			Origin:      domain.OriginLive,
		})
	}
	return alerts
}

func round(f float64) int {
	return int(math.Round(f))
}

func formatVisibility(meters *int) string {
	if meters == nil {
		return domain.VisibilityUnavailable
	}
	return fmt.Sprintf("%.1f", float64(*meters)*metersToMiles)
}

func firstWeather(ws []weatherPayload) weatherPayload {
	if len(ws) == 0 {
		return weatherPayload{}
	}
	return ws[0]
}

// isDayIcon reads OpenWeatherMap's icon suffix: "01d" is day, "01n" night.
func isDayIcon(icon string) bool {
	return !strings.HasSuffix(icon, "n")
}

func senderAreas(sender string) []string {
	if sender == "" {
		return nil
	}
	return []string{sender}
}
