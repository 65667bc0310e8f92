package controller

import (
	"time"

	"github.com/skycastapp/skycast/internal/domain"
)

// demoSnapshot is the dashboard state shown when no live data can be
// fetched, most commonly before an API key is configured. Values are fixed
// and plausible; only the dates are relative to now.
func demoSnapshot(now time.Time) Snapshot {
	current := domain.CurrentWeather{
		Location: domain.Location{
			Name:   "Demo City",
			Region: "US",
		},
		Temperature:   72,
		FeelsLike:     75,
		Humidity:      65,
		Pressure:      "30.15",
		Visibility:    "10.0",
		WindSpeed:     8,
		WindDirection: 180,
		Description:   "partly cloudy",
		Icon:          domain.IconCloudy,
		WeatherCode:   801,
		FetchedAt:     now,
	}

	days := []struct {
		high, low int
		desc      string
		code      int
	}{
		{75, 62, "sunny", 800},
		{78, 65, "partly cloudy", 801},
		{73, 59, "light rain", 500},
		{69, 55, "cloudy", 804},
		{71, 58, "partly cloudy", 802},
	}

	forecast := make([]domain.ForecastDay, 0, len(days))
	for i, d := range days {
		forecast = append(forecast, domain.ForecastDay{
			Date:        now.AddDate(0, 0, i+1),
			High:        d.high,
			Low:         d.low,
			Description: d.desc,
			Icon:        domain.IconFor(d.code, true),
			WeatherCode: d.code,
		})
	}

	return Snapshot{
		Current:         &current,
		Forecast:        forecast,
		Alerts:          nil,
		LocationDisplay: "Demo City, US",
		Origin:          OriginDemo,
		UpdatedAt:       now,
	}
}
