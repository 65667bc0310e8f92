// Package openweather implements domain.WeatherSource against the
// OpenWeatherMap API, the fallback provider. Requests use imperial units,
// but pressure still arrives in hPa and visibility in meters, so this
// adapter carries the unit conversions weatherapi does not need.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/skycastapp/skycast/internal/config"
	"github.com/skycastapp/skycast/internal/domain"
	"github.com/skycastapp/skycast/internal/observability"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// Alerts live on the One Call API, a separate versioned surface.
	defaultOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"

	reachabilityCity = "New York"
)

// Client is an OpenWeatherMap API client.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	oneCallURL string
	days       int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. days caps the grouped forecast
// length, at most 5.
func NewClient(key string, timeout time.Duration, days int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    defaultBaseURL,
		oneCallURL: defaultOneCallURL,
		days:       days,
		metrics:    metrics,
		logger:     logger,
	}
}

// Configured reports whether a usable API key is present.
func (c *Client) Configured() bool {
	return c.key != "" && c.key != config.PlaceholderAPIKey
}

// CurrentByCity fetches current conditions via the provider's city search.
func (c *Client) CurrentByCity(ctx context.Context, city string) (domain.CurrentWeather, error) {
	body, err := c.fetch(ctx, c.baseURL+"/weather", "weather", city, url.Values{"q": {city + ",US"}})
	if err != nil {
		return domain.CurrentWeather{}, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CurrentWeather{}, &domain.ParseError{Provider: "openweather", Err: err}
	}
	return normalizeCurrent(payload), nil
}

// CurrentByCoords fetches current conditions for a coordinate pair.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (domain.CurrentWeather, error) {
	body, err := c.fetch(ctx, c.baseURL+"/weather", "weather", coordQuery(lat, lon), coordParams(lat, lon))
	if err != nil {
		return domain.CurrentWeather{}, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CurrentWeather{}, &domain.ParseError{Provider: "openweather", Err: err}
	}
	return normalizeCurrent(payload), nil
}

// Forecast fetches the 3-hourly forecast and groups it into daily entries.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastDay, error) {
	body, err := c.fetch(ctx, c.baseURL+"/forecast", "forecast", coordQuery(lat, lon), coordParams(lat, lon))
	if err != nil {
		return nil, err
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ParseError{Provider: "openweather", Err: err}
	}
	return groupDaily(payload, c.days), nil
}

// Alerts fetches active alerts from the One Call API.
func (c *Client) Alerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	params := coordParams(lat, lon)
	params.Set("exclude", "current,minutely,hourly,daily")

	body, err := c.fetch(ctx, c.oneCallURL, "onecall", coordQuery(lat, lon), params)
	if err != nil {
		return nil, err
	}

	var payload oneCallResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ParseError{Provider: "openweather", Err: err}
	}
	return normalizeAlerts(payload), nil
}

// CheckReachability issues the fixed canary request and reports whether the
// provider answered. It never returns an error; any failure is false.
func (c *Client) CheckReachability(ctx context.Context) bool {
	if !c.Configured() {
		c.metrics.ProviderReachable.Set(0)
		return false
	}
	_, err := c.fetch(ctx, c.baseURL+"/weather", "weather", reachabilityCity, url.Values{"q": {reachabilityCity + ",US"}})
	if err != nil {
		c.logger.Warn("reachability canary failed", "error", err)
		c.metrics.ProviderReachable.Set(0)
		return false
	}
	c.metrics.ProviderReachable.Set(1)
	return true
}

func (c *Client) fetch(ctx context.Context, endpointURL, endpoint, humanQuery string, extra url.Values) ([]byte, error) {
	if !c.Configured() {
		return nil, domain.ErrUnconfigured
	}

	params := url.Values{}
	for k, vs := range extra {
		params[k] = vs
	}
	params.Set("appid", c.key)
	params.Set("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UnavailableError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UnavailableError{Op: endpoint, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "success").Inc()
		return body, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "not_found").Inc()
		return nil, &domain.NotFoundError{Query: humanQuery}
	default:
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UnavailableError{Op: endpoint, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}
}

func coordQuery(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

func coordParams(lat, lon float64) url.Values {
	return url.Values{
		"lat": {fmt.Sprintf("%.4f", lat)},
		"lon": {fmt.Sprintf("%.4f", lon)},
	}
}

// OpenWeatherMap response types.

type currentResponse struct {
	Name    string           `json:"name"`
	Coord   coordPayload     `json:"coord"`
	Sys     sysPayload       `json:"sys"`
	Weather []weatherPayload `json:"weather"`
	Main    mainPayload      `json:"main"`
	Wind    windPayload      `json:"wind"`
	// Visibility is meters; absent when the station does not report it.
	Visibility *int `json:"visibility"`
}

type coordPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type sysPayload struct {
	Country string `json:"country"`
}

type weatherPayload struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainPayload struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  float64 `json:"pressure"` // hPa regardless of units parameter
	TempMax   float64 `json:"temp_max"`
	TempMin   float64 `json:"temp_min"`
}

type windPayload struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type forecastResponse struct {
	List []forecastEntryPayload `json:"list"`
	City struct {
		Timezone int `json:"timezone"` // UTC offset in seconds
	} `json:"city"`
}

type forecastEntryPayload struct {
	Dt      int64            `json:"dt"`
	Main    mainPayload      `json:"main"`
	Weather []weatherPayload `json:"weather"`
}

type oneCallResponse struct {
	Alerts []oneCallAlertPayload `json:"alerts"`
}

type oneCallAlertPayload struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
