package openweather

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
	c.oneCallURL = srv.URL + "/onecall"
	return c
}

const currentBody = `{
	"name": "Chicago",
	"coord": {"lat": 41.88, "lon": -87.63},
	"sys": {"country": "US"},
	"weather": [{"id": 500, "description": "light rain", "icon": "10d"}],
	"main": {"temp": 58.6, "feels_like": 55.2, "humidity": 81, "pressure": 1013},
	"wind": {"speed": 12.4, "deg": 270},
	"visibility": 10000
}`

func TestCurrentByCity(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(currentBody))
	})

	current, err := c.CurrentByCity(context.Background(), "Chicago")
	require.NoError(t, err)

	assert.Equal(t, "/weather", gotPath)
	assert.Equal(t, []string{"Chicago,US"}, gotQuery["q"])
	assert.Equal(t, []string{"imperial"}, gotQuery["units"])
	assert.Equal(t, []string{"test-key"}, gotQuery["appid"])

	assert.Equal(t, "Chicago", current.Location.Name)
	assert.Equal(t, "US", current.Location.Region)
	assert.Equal(t, 59, current.Temperature)
	assert.Equal(t, 55, current.FeelsLike)
	assert.Equal(t, 81, current.Humidity)
	assert.Equal(t, "29.91", current.Pressure)
	assert.Equal(t, "6.2", current.Visibility)
	assert.Equal(t, 12, current.WindSpeed)
	assert.Equal(t, 270, current.WindDirection)
	assert.Equal(t, "light rain", current.Description)
	assert.Equal(t, domain.IconRain, current.Icon)
	assert.Equal(t, 500, current.WeatherCode)
}

func TestCurrentByCoords_MissingVisibility(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "41.8800", r.URL.Query().Get("lat"))
		assert.Equal(t, "-87.6300", r.URL.Query().Get("lon"))
		w.Write([]byte(`{
			"name": "Chicago",
			"weather": [{"id": 800, "description": "clear sky", "icon": "01n"}],
			"main": {"temp": 58.6, "pressure": 1013},
			"wind": {"speed": 5}
		}`))
	})

	current, err := c.CurrentByCoords(context.Background(), 41.88, -87.63)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityUnavailable, current.Visibility)
	assert.Equal(t, domain.IconClearNight, current.Icon)
}

func TestCurrentByCity_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	})

	_, err := c.CurrentByCity(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "Nowhere")
}

func TestCurrentByCity_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.CurrentByCity(context.Background(), "Chicago")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestUnconfigured(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, key := range []string{"", "YOUR_API_KEY_HERE"} {
		c := NewClient(key, 5*time.Second, 5, metrics, logger)
		assert.False(t, c.Configured())

		_, err := c.CurrentByCity(context.Background(), "Chicago")
		assert.ErrorIs(t, err, domain.ErrUnconfigured)
		assert.False(t, c.CheckReachability(context.Background()))
	}
}

func TestAlerts(t *testing.T) {
	var gotPath, gotExclude string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotExclude = r.URL.Query().Get("exclude")
		w.Write([]byte(`{
			"alerts": [{
				"sender_name": "NWS Chicago",
				"event": "Severe Thunderstorm Warning",
				"start": 1788220800,
				"end": 1788234000,
				"description": "Damaging winds expected.",
				"tags": ["Wind", "Thunderstorm"]
			}]
		}`))
	})

	alerts, err := c.Alerts(context.Background(), 41.88, -87.63)
	require.NoError(t, err)

	assert.Equal(t, "/onecall", gotPath)
	assert.Equal(t, "current,minutely,hourly,daily", gotExclude)

	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, "Severe Thunderstorm Warning", alert.Title)
	assert.Equal(t, domain.SeveritySevere, alert.Severity)
	assert.Equal(t, []string{"NWS Chicago"}, alert.Areas)
	assert.Equal(t, []string{"Wind", "Thunderstorm"}, alert.Tags)
	assert.Equal(t, domain.OriginLive, alert.Origin)
	assert.Equal(t, time.Unix(1788220800, 0).UTC(), alert.Start)
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
