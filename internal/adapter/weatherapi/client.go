// Package weatherapi implements domain.WeatherSource against the
// WeatherAPI.com v1 HTTP API, the primary provider. WeatherAPI serves
// imperial fields natively, so normalization is rounding and formatting
// only.
package weatherapi

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
	defaultBaseURL = "https://api.weatherapi.com/v1"

	// reachabilityCity is the fixed canary query for CheckReachability.
	reachabilityCity = "New York"
)

// Client is a WeatherAPI.com API client.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	days       int
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI.com client. days caps the forecast length,
// at most 5.
func NewClient(key string, timeout time.Duration, days int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		days:    days,
		metrics: metrics,
		logger:  logger,
	}
}

// Configured reports whether a usable API key is present.
func (c *Client) Configured() bool {
	return c.key != "" && c.key != config.PlaceholderAPIKey
}

// CurrentByCity fetches current conditions via the provider's city search.
func (c *Client) CurrentByCity(ctx context.Context, city string) (domain.CurrentWeather, error) {
	body, err := c.fetch(ctx, "current.json", city+",US", city, url.Values{"aqi": {"no"}})
	if err != nil {
		return domain.CurrentWeather{}, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CurrentWeather{}, &domain.ParseError{Provider: "weatherapi", Err: err}
	}
	return normalizeCurrent(payload), nil
}

// CurrentByCoords fetches current conditions for a coordinate pair.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (domain.CurrentWeather, error) {
	q := coordQuery(lat, lon)
	body, err := c.fetch(ctx, "current.json", q, q, url.Values{"aqi": {"no"}})
	if err != nil {
		return domain.CurrentWeather{}, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CurrentWeather{}, &domain.ParseError{Provider: "weatherapi", Err: err}
	}
	return normalizeCurrent(payload), nil
}

// Forecast fetches the daily forecast, mapped 1:1 up to the configured day
// count.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]domain.ForecastDay, error) {
	q := coordQuery(lat, lon)
	body, err := c.fetch(ctx, "forecast.json", q, q, url.Values{
		"days":   {fmt.Sprintf("%d", c.days)},
		"aqi":    {"no"},
		"alerts": {"no"},
	})
	if err != nil {
		return nil, err
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ParseError{Provider: "weatherapi", Err: err}
	}
	return normalizeForecast(payload, c.days), nil
}

// Alerts fetches active alerts via the one-day forecast endpoint with
// alerts enabled.
func (c *Client) Alerts(ctx context.Context, lat, lon float64) ([]domain.Alert, error) {
	q := coordQuery(lat, lon)
	body, err := c.fetch(ctx, "forecast.json", q, q, url.Values{
		"days":   {"1"},
		"aqi":    {"no"},
		"alerts": {"yes"},
	})
	if err != nil {
		return nil, err
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.ParseError{Provider: "weatherapi", Err: err}
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
	_, err := c.fetch(ctx, "current.json", reachabilityCity+",US", reachabilityCity, url.Values{"aqi": {"no"}})
	if err != nil {
		c.logger.Warn("reachability canary failed", "error", err)
		c.metrics.ProviderReachable.Set(0)
		return false
	}
	c.metrics.ProviderReachable.Set(1)
	return true
}

// fetch issues one GET and maps the HTTP outcome onto the error taxonomy.
// q is the provider query parameter, humanQuery the user's original input
// surfaced in NotFound errors.
func (c *Client) fetch(ctx context.Context, endpoint, q, humanQuery string, extra url.Values) ([]byte, error) {
	if !c.Configured() {
		return nil, domain.ErrUnconfigured
	}

	params := url.Values{}
	for k, vs := range extra {
		params[k] = vs
	}
	params.Set("key", c.key)
	params.Set("q", q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
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
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		// WeatherAPI answers 400 for queries matching no location.
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "not_found").Inc()
		return nil, &domain.NotFoundError{Query: humanQuery}
	default:
		c.metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UnavailableError{Op: endpoint, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}
}

func coordQuery(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// WeatherAPI.com response types.

type currentResponse struct {
	Location locationPayload `json:"location"`
	Current  currentPayload  `json:"current"`
}

type locationPayload struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type currentPayload struct {
	TempF      float64          `json:"temp_f"`
	FeelsLikeF float64          `json:"feelslike_f"`
	Humidity   int              `json:"humidity"`
	PressureIn float64          `json:"pressure_in"`
	VisMiles   float64          `json:"vis_miles"`
	WindMph    float64          `json:"wind_mph"`
	WindDegree int              `json:"wind_degree"`
	IsDay      int              `json:"is_day"`
	Condition  conditionPayload `json:"condition"`
}

type conditionPayload struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type forecastResponse struct {
	Location locationPayload `json:"location"`
	Forecast struct {
		ForecastDay []forecastDayPayload `json:"forecastday"`
	} `json:"forecast"`
	Alerts struct {
		Alert []alertPayload `json:"alert"`
	} `json:"alerts"`
}

type forecastDayPayload struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempF  float64          `json:"maxtemp_f"`
		MinTempF  float64          `json:"mintemp_f"`
		Condition conditionPayload `json:"condition"`
	} `json:"day"`
}

type alertPayload struct {
	Headline  string `json:"headline"`
	Event     string `json:"event"`
	Desc      string `json:"desc"`
	Severity  string `json:"severity"`
	Certainty string `json:"certainty"`
	Effective string `json:"effective"`
	Expires   string `json:"expires"`
	Areas     string `json:"areas"`
}
