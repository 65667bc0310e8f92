package weatherapi

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/skycastapp/skycast/internal/domain"
)

func normalizeCurrent(p currentResponse) domain.CurrentWeather {
	return domain.CurrentWeather{
		Location: domain.Location{
			Name:   p.Location.Name,
			Region: region(p.Location),
			Lat:    p.Location.Lat,
			Lon:    p.Location.Lon,
		},
		Temperature:   round(p.Current.TempF),
		FeelsLike:     round(p.Current.FeelsLikeF),
		Humidity:      p.Current.Humidity,
		Pressure:      fmt.Sprintf("%.2f", p.Current.PressureIn),
		Visibility:    fmt.Sprintf("%.1f", p.Current.VisMiles),
		WindSpeed:     round(p.Current.WindMph),
		WindDirection: p.Current.WindDegree,
		Description:   p.Current.Condition.Text,
		Icon:          domain.IconFor(p.Current.Condition.Code, p.Current.IsDay == 1),
		WeatherCode:   p.Current.Condition.Code,
		FetchedAt:     domain.Now(),
	}
}

// normalizeForecast maps provider days 1:1, truncated to maxDays.
func normalizeForecast(p forecastResponse, maxDays int) []domain.ForecastDay {
	days := p.Forecast.ForecastDay
	if len(days) > maxDays {
		days = days[:maxDays]
	}

	out := make([]domain.ForecastDay, 0, len(days))
	for _, d := range days {
		date, _ := time.Parse("2006-01-02", d.Date)
		out = append(out, domain.ForecastDay{
			Date:        date,
			High:        round(d.Day.MaxTempF),
			Low:         round(d.Day.MinTempF),
			Description: d.Day.Condition.Text,
			Icon:        domain.IconFor(d.Day.Condition.Code, true),
			WeatherCode: d.Day.Condition.Code,
		})
	}
	return out
}

func normalizeAlerts(p forecastResponse) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(p.Alerts.Alert))
	for _, a := range p.Alerts.Alert {
		title := a.Headline
		if title == "" {
			title = a.Event
		}
		alerts = append(alerts, domain.Alert{
			Title:       title,
			Description: a.Desc,
			Severity:    domain.ClassifySeverity(a.Severity),
			Start:       parseTime(a.Effective),
			End:         parseTime(a.Expires),
			Areas:       splitAreas(a.Areas),
			Tags:        alertTags(a),
			Origin:      domain.OriginLive,
		})
	}
	return alerts
}

func round(f float64) int {
	return int(math.Round(f))
}

// region prefers the US state name; international results fall back to the
// country.
func region(l locationPayload) string {
	if l.Region != "" {
		return l.Region
	}
	return l.Country
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func splitAreas(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	areas := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			areas = append(areas, p)
		}
	}
	return areas
}

func alertTags(a alertPayload) []string {
	var tags []string
	if a.Severity != "" {
		tags = append(tags, a.Severity)
	}
	if a.Certainty != "" {
		tags = append(tags, a.Certainty)
	}
	return tags
}
