package weatherapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastapp/skycast/internal/domain"
	"github.com/skycastapp/skycast/internal/observability"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", 5*time.Second, 5, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = srv.URL
	return c
}

const currentBody = `{
	"location": {"name": "Austin", "region": "Texas", "country": "United States of America", "lat": 30.27, "lon": -97.74},
	"current": {
		"temp_f": 72.4, "feelslike_f": 74.6, "humidity": 65,
		"pressure_in": 30.153, "vis_miles": 10.0,
		"wind_mph": 8.5, "wind_degree": 180, "is_day": 1,
		"condition": {"text": "Partly cloudy", "icon": "//cdn.weatherapi.com/64x64/day/116.png", "code": 1003}
	}
}`

func TestCurrentByCity(t *testing.T) {
	var gotPath, gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(currentBody))
	})

	current, err := c.CurrentByCity(context.Background(), "Austin")
	require.NoError(t, err)

	assert.Equal(t, "/current.json", gotPath)
	assert.Equal(t, "Austin,US", gotQuery)

	assert.Equal(t, "Austin", current.Location.Name)
	assert.Equal(t, "Texas", current.Location.Region)
	assert.Equal(t, 72, current.Temperature)
	assert.Equal(t, 75, current.FeelsLike)
	assert.Equal(t, 65, current.Humidity)
	assert.Equal(t, "30.15", current.Pressure)
	assert.Equal(t, "10.0", current.Visibility)
	assert.Equal(t, 9, current.WindSpeed)
	assert.Equal(t, 180, current.WindDirection)
	assert.Equal(t, "Partly cloudy", current.Description)
	assert.Equal(t, domain.IconCloudy, current.Icon)
	assert.Equal(t, 1003, current.WeatherCode)
	assert.False(t, current.FetchedAt.IsZero())
}

func TestCurrentByCoords(t *testing.T) {
	var gotQuery string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(currentBody))
	})

	_, err := c.CurrentByCoords(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)
	assert.Equal(t, "30.2672,-97.7431", gotQuery)
}

func TestCurrentByCity_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 1006, "message": "No matching location found."}}`))
	})

	_, err := c.CurrentByCity(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestCurrentByCity_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CurrentByCity(context.Background(), "Austin")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestCurrentByCity_BadJSON(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"location": `))
	})

	_, err := c.CurrentByCity(context.Background(), "Austin")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestUnconfigured(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, key := range []string{"", "YOUR_API_KEY_HERE"} {
		c := NewClient(key, 5*time.Second, 5, metrics, logger)
		assert.False(t, c.Configured())

		_, err := c.CurrentByCity(context.Background(), "Austin")
		assert.ErrorIs(t, err, domain.ErrUnconfigured)
		assert.False(t, c.CheckReachability(context.Background()))
	}
}

func TestForecast(t *testing.T) {
	var gotValues map[string][]string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotValues = r.URL.Query()
		w.Write([]byte(`{
			"location": {"name": "Austin", "region": "Texas", "lat": 30.27, "lon": -97.74},
			"forecast": {"forecastday": [
				{"date": "2026-09-01", "day": {"maxtemp_f": 95.2, "mintemp_f": 74.8, "condition": {"text": "Sunny", "code": 1000}}},
				{"date": "2026-09-02", "day": {"maxtemp_f": 92.1, "mintemp_f": 73.3, "condition": {"text": "Patchy rain", "code": 1063}}}
			]}
		}`))
	})

	days, err := c.Forecast(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)

	assert.Equal(t, []string{"5"}, gotValues["days"])
	assert.Equal(t, []string{"no"}, gotValues["alerts"])

	require.Len(t, days, 2)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, 95, days[0].High)
	assert.Equal(t, 75, days[0].Low)
	assert.Equal(t, domain.IconClearDay, days[0].Icon)
	assert.Equal(t, domain.IconRain, days[1].Icon)
}

func TestForecast_TruncatesToConfiguredDays(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"forecast": {"forecastday": [
				{"date": "2026-09-01", "day": {"condition": {"code": 1000}}},
				{"date": "2026-09-02", "day": {"condition": {"code": 1000}}},
				{"date": "2026-09-03", "day": {"condition": {"code": 1000}}},
				{"date": "2026-09-04", "day": {"condition": {"code": 1000}}}
			]}
		}`))
	})
	c.days = 3

	days, err := c.Forecast(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)
	assert.Len(t, days, 3)
}

func TestAlerts(t *testing.T) {
	var gotValues map[string][]string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotValues = r.URL.Query()
		w.Write([]byte(`{
			"alerts": {"alert": [{
				"headline": "Severe Thunderstorm Warning issued for Travis County",
				"event": "Severe Thunderstorm Warning",
				"desc": "Quarter size hail and 60 mph wind gusts expected.",
				"severity": "Severe",
				"certainty": "Likely",
				"effective": "2026-09-01T14:00:00-05:00",
				"expires": "2026-09-01T15:30:00-05:00",
				"areas": "Travis; Williamson"
			}]}
		}`))
	})

	alerts, err := c.Alerts(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, gotValues["days"])
	assert.Equal(t, []string{"yes"}, gotValues["alerts"])

	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, "Severe Thunderstorm Warning issued for Travis County", alert.Title)
	assert.Equal(t, domain.SeveritySevere, alert.Severity)
	assert.Equal(t, []string{"Travis", "Williamson"}, alert.Areas)
	assert.Equal(t, []string{"Severe", "Likely"}, alert.Tags)
	assert.Equal(t, domain.OriginLive, alert.Origin)
	assert.Equal(t, 14, alert.Start.Hour())
	assert.Equal(t, 90*time.Minute, alert.End.Sub(alert.Start))
}

func TestAlerts_Empty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"alerts": {"alert": []}}`))
	})

	alerts, err := c.Alerts(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestCheckReachability(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "New York,US", r.URL.Query().Get("q"))
			w.Write([]byte(currentBody))
		})
		assert.True(t, c.CheckReachability(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.False(t, c.CheckReachability(context.Background()))
	})
}
