// Package session ties the interaction loop, the periodic refresh tasks and the
// listing pipeline into the lifecycle of one AR view.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/ingest"
	"github.com/UnknownOlympus/lodestar/internal/loop"
	"github.com/UnknownOlympus/lodestar/internal/metrics"
	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/scene"
	"github.com/UnknownOlympus/lodestar/internal/telemetry"
	"github.com/UnknownOlympus/lodestar/internal/tracker"
)

const (
	DefaultTelemetryPeriod = 100 * time.Millisecond
	DefaultTrackerPeriod   = 500 * time.Millisecond
)

// Options configures the periodic tasks.
type Options struct {
	TelemetryPeriod time.Duration // Period of the diagnostics refresh.
	TrackerPeriod   time.Duration // Period of the map marker update.
	ShowMap         bool          // Without a map the tracker task never starts.
}

// Session is the visible AR view: it runs the subsystem and the refresh tasks
// between Resume and Pause and accepts listing searches at any time.
type Session struct {
	log       *slog.Logger
	loop      *loop.Loop
	scene     scene.Subsystem
	refresher *telemetry.Refresher
	tracker   *tracker.Tracker
	pipeline  *ingest.Pipeline
	metrics   *metrics.Metrics
	opts      Options

	// owned by the loop
	running       bool
	telemetryTask *loop.Task
	trackerTask   *loop.Task
}

// New wires a session. tracker may be nil when no map is shown.
func New(
	log *slog.Logger,
	l *loop.Loop,
	subsystem scene.Subsystem,
	refresher *telemetry.Refresher,
	tracker *tracker.Tracker,
	pipeline *ingest.Pipeline,
	metrics *metrics.Metrics,
	opts Options,
) *Session {
	if opts.TelemetryPeriod <= 0 {
		opts.TelemetryPeriod = DefaultTelemetryPeriod
	}
	if opts.TrackerPeriod <= 0 {
		opts.TrackerPeriod = DefaultTrackerPeriod
	}
	if tracker == nil {
		opts.ShowMap = false
	}

	return &Session{
		log:       log,
		loop:      l,
		scene:     subsystem,
		refresher: refresher,
		tracker:   tracker,
		pipeline:  pipeline,
		metrics:   metrics,
		opts:      opts,
	}
}

// Resume starts the subsystem and the periodic tasks. Resuming a running session does nothing.
func (s *Session) Resume(ctx context.Context) error {
	base := context.WithoutCancel(ctx)

	return s.loop.Do(ctx, func() {
		if s.running {
			return
		}
		s.running = true

		s.scene.Run()
		s.telemetryTask = s.loop.Every(s.opts.TelemetryPeriod, s.timed("telemetry", s.refresher.Tick))
		if s.opts.ShowMap {
			s.trackerTask = s.loop.Every(s.opts.TrackerPeriod, s.timed("tracker", func() {
				s.tracker.Tick(base)
			}))
		}

		s.log.InfoContext(ctx, "Session resumed", "show_map", s.opts.ShowMap)
	})
}

// Pause stops the periodic tasks and the subsystem and abandons any listing
// request in flight. Pausing a paused session does nothing.
func (s *Session) Pause(ctx context.Context) error {
	return s.loop.Do(ctx, func() {
		if !s.running {
			return
		}
		s.running = false

		s.scene.Pause()
		s.telemetryTask.Stop()
		s.telemetryTask = nil
		if s.trackerTask != nil {
			s.trackerTask.Stop()
			s.trackerTask = nil
		}
		s.pipeline.Cancel(ctx)

		s.log.InfoContext(ctx, "Session paused")
	})
}

// Search submits a radius to the listing pipeline and returns the request generation.
func (s *Session) Search(ctx context.Context, radius string) (uint64, error) {
	var (
		generation uint64
		err        error
	)
	if doErr := s.loop.Do(ctx, func() {
		generation, err = s.pipeline.Submit(ctx, radius)
	}); doErr != nil {
		return 0, doErr
	}

	return generation, err
}

// SetCenterOnUser toggles automatic re-centering of the map.
func (s *Session) SetCenterOnUser(ctx context.Context, enabled bool) error {
	if s.tracker == nil {
		return nil
	}

	return s.loop.Do(ctx, func() {
		s.tracker.SetCenterOnUser(enabled)
	})
}

// Running reports whether the session is between Resume and Pause.
func (s *Session) Running(ctx context.Context) (bool, error) {
	var running bool
	err := s.loop.Do(ctx, func() { running = s.running })

	return running, err
}

// Telemetry returns the current diagnostic display.
func (s *Session) Telemetry(ctx context.Context) (telemetry.Display, error) {
	var display telemetry.Display
	err := s.loop.Do(ctx, func() { display = s.refresher.Snapshot() })

	return display, err
}

// Status returns the listing pipeline status.
func (s *Session) Status(ctx context.Context) (ingest.Status, error) {
	var status ingest.Status
	err := s.loop.Do(ctx, func() { status = s.pipeline.Status() })

	return status, err
}

// Markers returns the listing markers currently placed.
func (s *Session) Markers(ctx context.Context) ([]models.Marker, error) {
	var markers []models.Marker
	err := s.loop.Do(ctx, func() { markers = s.pipeline.Markers() })

	return markers, err
}

// Listings returns the most recently decoded batch.
func (s *Session) Listings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.loop.Do(ctx, func() { listings = s.pipeline.Listings() })

	return listings, err
}

// Tap resolves a marker tag to the listing page it opens.
func (s *Session) Tap(ctx context.Context, tag string) (string, error) {
	var (
		target string
		err    error
	)
	if doErr := s.loop.Do(ctx, func() {
		target, err = s.pipeline.Tap(tag)
	}); doErr != nil {
		return "", doErr
	}

	return target, err
}

// timed wraps a periodic job so its duration is observed.
func (s *Session) timed(task string, fn func()) func() {
	observer := s.metrics.TickSeconds.WithLabelValues(task)

	return func() {
		start := time.Now()
		fn()
		observer.Observe(time.Since(start).Seconds())
	}
}
