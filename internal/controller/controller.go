// Package controller orchestrates the dashboard refresh sequence: resolve a
// location, fetch current conditions, then settle the forecast and alert
// fetches concurrently and publish the resulting snapshot to subscribers.
//
// Concurrency model: at most one refresh sequence runs at a time. User-driven
// loads supersede whatever is in flight; background triggers (timer,
// visibility) are skipped while a sequence is running. Supersession is a
// generation token: results from a stale generation are discarded, never
// merged into the snapshot.
package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/skycastapp/skycast/internal/domain"
	"github.com/skycastapp/skycast/internal/locate"
	"github.com/skycastapp/skycast/internal/observability"
)

// Refresh triggers, used as metric labels and for busy-arbitration.
const (
	TriggerSearch     = "search"
	TriggerGPS        = "gps"
	TriggerTimer      = "timer"
	TriggerVisibility = "visibility"
	TriggerManual     = "manual"
)

// Snapshot origins.
const (
	OriginLive = "live"
	OriginDemo = "demo"
)

// Snapshot is the complete dashboard state at one point in time. Values are
// copies; a published Snapshot never mutates.
type Snapshot struct {
	Current         *domain.CurrentWeather `json:"current,omitempty"`
	Forecast        []domain.ForecastDay   `json:"forecast"`
	Alerts          []domain.Alert         `json:"alerts"`
	LocationDisplay string                 `json:"location_display"`
	Origin          string                 `json:"origin"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// AlertPublisher forwards severe alerts to an external notification channel.
// Publishing is best-effort: failures are logged, never surfaced to the
// dashboard.
type AlertPublisher interface {
	PublishSevere(ctx context.Context, alerts []domain.Alert) error
}

// Options carries the controller's dependencies. Source, Resolver, Metrics
// and Logger are required; the rest are optional capabilities.
type Options struct {
	Source          domain.WeatherSource
	Resolver        *locate.Resolver
	Geolocator      locate.Geolocator
	Publisher       AlertPublisher
	Clock           clockwork.Clock
	RefreshInterval time.Duration
	Metrics         *observability.Metrics
	Logger          *slog.Logger
}

// target is the location of the last successful load, re-fetched by
// background refreshes.
type target struct {
	byCoords bool
	city     string
	lat, lon float64
}

// Controller owns the dashboard snapshot and the single-flight refresh
// arbitration around it.
type Controller struct {
	source          domain.WeatherSource
	resolver        *locate.Resolver
	geolocator      locate.Geolocator
	publisher       AlertPublisher
	clock           clockwork.Clock
	refreshInterval time.Duration
	metrics         *observability.Metrics
	logger          *slog.Logger

	mu             sync.Mutex
	busy           bool
	generation     uint64
	cancelInflight context.CancelFunc
	snapshot       Snapshot
	last           target
	haveTarget     bool

	subMu sync.Mutex
	subs  map[chan Snapshot]struct{}

	visible chan struct{}
	ready   atomic.Bool
}

// New creates a Controller. A nil Clock falls back to the real clock.
func New(opts Options) *Controller {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{
		source:          opts.Source,
		resolver:        opts.Resolver,
		geolocator:      opts.Geolocator,
		publisher:       opts.Publisher,
		clock:           clock,
		refreshInterval: opts.RefreshInterval,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		subs:            make(map[chan Snapshot]struct{}),
		visible:         make(chan struct{}, 1),
	}
}

// LoadCity runs a full refresh sequence for a searched city name. Known
// table entries are fetched by coordinates; anything else goes through the
// provider's own city search. Supersedes any in-flight sequence.
func (c *Controller) LoadCity(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return &domain.NotFoundError{Query: city}
	}
	return c.run(ctx, TriggerSearch, true, c.cityFetch(city))
}

// LoadCoords runs a full refresh sequence for a raw coordinate pair.
// Coordinates outside the continental US fail before any network call.
// Supersedes any in-flight sequence.
func (c *Controller) LoadCoords(ctx context.Context, lat, lon float64) error {
	return c.run(ctx, TriggerManual, true, c.coordFetch(lat, lon))
}

// LocateAndLoad queries the injected geolocation capability and loads the
// reported position. Supersedes any in-flight sequence.
func (c *Controller) LocateAndLoad(ctx context.Context) error {
	if c.geolocator == nil {
		return locate.ErrGPSUnavailable
	}
	lat, lon, err := c.geolocator.Locate(ctx)
	if err != nil {
		return err
	}
	return c.run(ctx, TriggerGPS, true, c.coordFetch(lat, lon))
}

// Refresh re-fetches the last loaded location. Background triggers do not
// supersede: if a sequence is already running the refresh is skipped. Before
// any location has loaded it is a no-op.
func (c *Controller) Refresh(ctx context.Context, trigger string) error {
	c.mu.Lock()
	last, ok := c.last, c.haveTarget
	c.mu.Unlock()
	if !ok {
		return nil
	}

	fetch := c.coordFetch(last.lat, last.lon)
	if !last.byCoords {
		fetch = c.cityFetch(last.city)
	}
	return c.run(ctx, trigger, false, fetch)
}

// LoadDefault performs the startup load: the configured default city, with
// demonstration data as the fallback when the load fails (most commonly
// because no API key is configured).
func (c *Controller) LoadDefault(ctx context.Context, city string) {
	if err := c.LoadCity(ctx, city); err != nil {
		c.logger.Warn("initial load failed, falling back to demo data",
			"city", city,
			"error", err,
		)
		c.applyDemo()
	}
}

// Run drives background refreshes until ctx is done: the periodic timer and
// visibility-restore notifications.
func (c *Controller) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := c.Refresh(ctx, TriggerTimer); err != nil {
				c.logger.Warn("timer refresh failed", "error", err)
			}
		case <-c.visible:
			if err := c.Refresh(ctx, TriggerVisibility); err != nil {
				c.logger.Warn("visibility refresh failed", "error", err)
			}
		}
	}
}

// NotifyVisible signals that a dashboard became visible again. Coalesces:
// repeat notifications while one is pending are dropped.
func (c *Controller) NotifyVisible() {
	select {
	case c.visible <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the current dashboard state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Subscribe registers for snapshot updates. The returned cancel must be
// called when the subscriber goes away. Slow subscribers miss intermediate
// snapshots rather than blocking publication.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	c.subMu.Lock()
	c.subs[ch] = struct{}{}
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		delete(c.subs, ch)
		c.subMu.Unlock()
	}
	return ch, cancel
}

// CheckReadiness reports whether at least one snapshot has been published.
func (c *Controller) CheckReadiness(ctx context.Context) bool {
	return c.ready.Load()
}

// fetchResult is phase one of a sequence: resolved current conditions plus
// the display string for the dashboard header.
type fetchResult struct {
	current domain.CurrentWeather
	display string
	last    target
}

func (c *Controller) cityFetch(city string) func(context.Context) (fetchResult, error) {
	return func(ctx context.Context) (fetchResult, error) {
		if loc, ok := c.resolver.ResolveName(city); ok {
			current, err := c.source.CurrentByCoords(ctx, loc.Lat, loc.Lon)
			if err != nil {
				return fetchResult{}, err
			}
			return fetchResult{
				current: current,
				display: locate.FormatDisplay(loc),
				last:    target{city: city},
			}, nil
		}

		current, err := c.source.CurrentByCity(ctx, city)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{
			current: current,
			display: locate.FormatDisplay(current.Location),
			last:    target{city: city},
		}, nil
	}
}

func (c *Controller) coordFetch(lat, lon float64) func(context.Context) (fetchResult, error) {
	return func(ctx context.Context) (fetchResult, error) {
		if !locate.USBoundingBox(lat, lon) {
			return fetchResult{}, &domain.OutOfServiceAreaError{Lat: lat, Lon: lon}
		}

		current, err := c.source.CurrentByCoords(ctx, lat, lon)
		if err != nil {
			return fetchResult{}, err
		}

		display := locate.FormatDisplay(domain.Location{Lat: lat, Lon: lon})
		if nearest, ok := c.resolver.NearestKnownCity(lat, lon); ok {
			display = locate.FormatDisplay(nearest)
		}
		return fetchResult{
			current: current,
			display: display,
			last:    target{byCoords: true, lat: lat, lon: lon},
		}, nil
	}
}

// run executes one refresh sequence: phase one resolves and publishes
// current conditions, phase two settles the forecast and alert fetches
// concurrently. A forecast failure clears the forecast but keeps the
// sequence alive; alerts never fail.
func (c *Controller) run(ctx context.Context, trigger string, supersede bool, fetch func(context.Context) (fetchResult, error)) error {
	runCtx, gen, ok := c.begin(ctx, supersede)
	if !ok {
		c.metrics.RefreshSequences.WithLabelValues(trigger, "skipped").Inc()
		c.logger.Debug("refresh skipped, sequence already in flight", "trigger", trigger)
		return nil
	}
	defer c.finish(gen)
	start := c.clock.Now()

	result, err := fetch(runCtx)
	if err != nil {
		if runCtx.Err() != nil {
			c.metrics.RefreshSequences.WithLabelValues(trigger, "superseded").Inc()
			return err
		}
		c.metrics.RefreshSequences.WithLabelValues(trigger, "failure").Inc()
		c.logger.Warn("refresh sequence failed", "trigger", trigger, "error", err)
		return err
	}

	// Phase one: current conditions render before the slower fetches settle.
	// The prior forecast and alerts belong to the prior location, so they
	// are cleared rather than shown against the new header.
	applied := c.apply(gen, func(s *Snapshot) {
		s.Current = &result.current
		s.Forecast = nil
		s.Alerts = nil
		s.LocationDisplay = result.display
		s.Origin = OriginLive
		s.UpdatedAt = c.clock.Now()
	})
	if !applied {
		c.metrics.RefreshSequences.WithLabelValues(trigger, "superseded").Inc()
		return nil
	}

	c.mu.Lock()
	c.last = result.last
	c.haveTarget = true
	c.mu.Unlock()

	lat, lon := result.current.Location.Lat, result.current.Location.Lon

	// Phase two: both fetches always settle; neither aborts the other.
	var wg sync.WaitGroup
	var forecast []domain.ForecastDay
	var forecastErr error
	var alerts []domain.Alert

	wg.Add(2)
	go func() {
		defer wg.Done()
		forecast, forecastErr = c.source.Forecast(runCtx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		alerts = domain.FetchOrSynthesize(runCtx, c.source, lat, lon, c.logger)
	}()
	wg.Wait()

	applied = c.apply(gen, func(s *Snapshot) {
		if forecastErr == nil {
			s.Forecast = forecast
		}
		s.Alerts = alerts
		s.UpdatedAt = c.clock.Now()
	})
	if !applied {
		c.metrics.RefreshSequences.WithLabelValues(trigger, "superseded").Inc()
		return nil
	}

	if forecastErr != nil {
		c.logger.Warn("forecast fetch failed, rendering without it",
			"trigger", trigger,
			"error", forecastErr,
		)
	}
	for _, a := range alerts {
		if a.Origin == domain.OriginSynthetic {
			c.metrics.SyntheticAlerts.Inc()
		}
	}
	c.publishSevere(runCtx, alerts)

	c.ready.Store(true)
	c.metrics.RefreshDuration.Observe(c.clock.Since(start).Seconds())
	c.metrics.RefreshSequences.WithLabelValues(trigger, "success").Inc()
	return nil
}

// begin arbitrates sequence starts. Superseding starts cancel the in-flight
// sequence and take over; non-superseding starts yield while one is running.
func (c *Controller) begin(ctx context.Context, supersede bool) (context.Context, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		if !supersede {
			return nil, 0, false
		}
		c.cancelInflight()
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.generation++
	c.busy = true
	c.cancelInflight = cancel
	return runCtx, c.generation, true
}

func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.busy = false
		c.cancelInflight()
		c.cancelInflight = nil
	}
}

// apply mutates the snapshot and notifies subscribers, unless gen has been
// superseded, in which case the mutation is discarded.
func (c *Controller) apply(gen uint64, fn func(*Snapshot)) bool {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return false
	}
	fn(&c.snapshot)
	snap := c.snapshot
	c.mu.Unlock()

	c.notify(snap)
	return true
}

func (c *Controller) applyDemo() {
	snap := demoSnapshot(c.clock.Now())

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()

	c.ready.Store(true)
	c.notify(snap)
}

func (c *Controller) notify(snap Snapshot) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Slow subscriber: evict the stale snapshot so the newest wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (c *Controller) publishSevere(ctx context.Context, alerts []domain.Alert) {
	if c.publisher == nil {
		return
	}

	var severe []domain.Alert
	for _, a := range alerts {
		if a.Severity == domain.SeveritySevere && a.Origin == domain.OriginLive {
			severe = append(severe, a)
		}
	}
	if len(severe) == 0 {
		return
	}

	if err := c.publisher.PublishSevere(ctx, severe); err != nil {
		c.logger.Warn("severe alert publish failed", "count", len(severe), "error", err)
	}
}
