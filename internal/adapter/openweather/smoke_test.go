//go:build provider

package openweather

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastapp/skycast/internal/config"
	"github.com/skycastapp/skycast/internal/observability"
)

// TestLiveSmoke hits the real provider. Run with:
//
//	WEATHER_API_KEY=... go test -tags provider ./internal/adapter/openweather/
func TestLiveSmoke(t *testing.T) {
	key := os.Getenv("WEATHER_API_KEY")
	if key == "" || key == config.PlaceholderAPIKey {
		t.Skip("WEATHER_API_KEY not set")
	}

	c := NewClient(key, 10*time.Second, 5,
		observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	current, err := c.CurrentByCity(ctx, "New York")
	require.NoError(t, err)
	assert.Equal(t, "New York", current.Location.Name)
	assert.NotEmpty(t, current.Pressure)

	forecast, err := c.Forecast(ctx, current.Location.Lat, current.Location.Lon)
	require.NoError(t, err)
	assert.NotEmpty(t, forecast)
	assert.LessOrEqual(t, len(forecast), 5)
}
