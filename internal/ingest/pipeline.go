// Package ingest turns a search radius into listing markers placed in the AR scene.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/lodestar/internal/metrics"
	"github.com/UnknownOlympus/lodestar/internal/models"
	"github.com/UnknownOlympus/lodestar/internal/offers"
	"github.com/UnknownOlympus/lodestar/internal/scene"
	"github.com/google/uuid"
)

// State is the pipeline state.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateDecoding   State = "decoding"
	StatePlacing    State = "placing"
	StateFailed     State = "failed"
)

var (
	// ErrNoFix is returned when a search is submitted before the first location fix.
	ErrNoFix = errors.New("no location fix yet")
	// ErrEmptyRadius is returned when the submitted radius is blank.
	ErrEmptyRadius = errors.New("search radius is empty")
	// ErrSuperseded marks a request invalidated by a newer submission or by teardown.
	ErrSuperseded = errors.New("ingestion request superseded")
	// ErrUnknownMarker is returned when a tap names no placed marker.
	ErrUnknownMarker = errors.New("no placed marker with this tag")
)

// Poster marshals work onto the interaction loop.
type Poster interface {
	Post(fn func()) bool
}

// Recorder persists finished ingestions.
type Recorder interface {
	RecordRun(ctx context.Context, run models.IngestionRun) error
}

// Options configures marker construction and tap-through.
type Options struct {
	Altitude       float64       // Anchor altitude for every marker.
	Image          string        // Pin image for every marker.
	ListingBaseURL string        // Tap-through pages live under this URL.
	RecordTimeout  time.Duration // Upper bound for persisting one run.
}

// Status is a point-in-time view of the pipeline.
type Status struct {
	State      State     `json:"state"`
	Generation uint64    `json:"generation"`
	Radius     string    `json:"radius,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Listings   int       `json:"listings"`
	Placed     int       `json:"placed"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type request struct {
	id         string
	generation uint64
	radius     string
	center     models.GeoPosition
	startedAt  time.Time
	ctx        context.Context // canceled when the request is superseded or done
	base       context.Context // outlives the request, carries logging and recording
}

// Pipeline owns the listing buffer, the placed markers and the request generation.
// Every method must be called on the interaction loop; network work runs on its
// own goroutine and re-enters through the Poster.
type Pipeline struct {
	log          *slog.Logger
	loop         Poster
	scene        scene.Subsystem
	provider     offers.Provider
	recorder     Recorder
	metrics      *metrics.Metrics
	providerName string
	opts         Options

	state      State
	generation uint64
	radius     string
	buffer     []models.Listing
	placed     []models.Marker
	byTag      map[string]models.Marker
	lastErr    error
	updatedAt  time.Time
	cancel     context.CancelFunc
}

// New creates an idle pipeline. recorder may be nil.
func New(
	log *slog.Logger,
	loop Poster,
	subsystem scene.Subsystem,
	provider offers.Provider,
	recorder Recorder,
	metrics *metrics.Metrics,
	providerName string,
	opts Options,
) *Pipeline {
	if opts.Image == "" {
		opts.Image = DefaultImage
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = 5 * time.Second
	}

	return &Pipeline{
		log:          log,
		loop:         loop,
		scene:        subsystem,
		provider:     provider,
		recorder:     recorder,
		metrics:      metrics,
		providerName: providerName,
		opts:         opts,
		state:        StateIdle,
		byTag:        make(map[string]models.Marker),
	}
}

// Submit starts an ingestion for the given radius around the current fix and
// returns its generation. A request still in flight is canceled and its
// response, if any, is discarded.
func (p *Pipeline) Submit(ctx context.Context, radius string) (uint64, error) {
	radius = strings.TrimSpace(radius)
	if radius == "" {
		p.reject(ctx, ErrEmptyRadius)
		return 0, ErrEmptyRadius
	}

	center, ok := p.scene.CurrentLocation()
	if !ok {
		p.reject(ctx, ErrNoFix)
		return 0, ErrNoFix
	}

	p.supersede(ctx)

	p.generation++
	base := context.WithoutCancel(ctx)
	reqCtx, cancel := context.WithCancel(base)
	p.cancel = cancel
	req := request{
		id:         uuid.NewString(),
		generation: p.generation,
		radius:     radius,
		center:     center,
		startedAt:  time.Now(),
		ctx:        reqCtx,
		base:       base,
	}

	p.radius = radius
	p.setState(StateRequesting, nil)

	p.log.InfoContext(ctx, "Requesting listings",
		"request_id", req.id,
		"generation", req.generation,
		"lat", center.Latitude,
		"lon", center.Longitude,
		"radius", radius,
	)

	go p.fetch(req)

	return req.generation, nil
}

// Cancel aborts the request in flight, if any. Its response will be discarded.
func (p *Pipeline) Cancel(ctx context.Context) {
	if p.cancel == nil {
		return
	}

	p.supersede(ctx)
	p.generation++
	p.setState(StateIdle, nil)
}

// Tap resolves a placed marker tag to its listing page.
func (p *Pipeline) Tap(tag string) (string, error) {
	if _, ok := p.byTag[tag]; !ok {
		return "", ErrUnknownMarker
	}

	return TapURL(p.opts.ListingBaseURL, tag), nil
}

// PlacedCount returns the number of markers currently in the scene.
func (p *Pipeline) PlacedCount() int {
	return len(p.placed)
}

// Markers returns a copy of the placed markers in placement order.
func (p *Pipeline) Markers() []models.Marker {
	markers := make([]models.Marker, len(p.placed))
	copy(markers, p.placed)

	return markers
}

// Listings returns a copy of the most recent batch.
func (p *Pipeline) Listings() []models.Listing {
	listings := make([]models.Listing, len(p.buffer))
	copy(listings, p.buffer)

	return listings
}

// Status reports the pipeline state.
func (p *Pipeline) Status() Status {
	status := Status{
		State:      p.state,
		Generation: p.generation,
		Radius:     p.radius,
		Listings:   len(p.buffer),
		Placed:     len(p.placed),
		UpdatedAt:  p.updatedAt,
	}
	if p.lastErr != nil {
		status.LastError = p.lastErr.Error()
	}

	return status
}

func (p *Pipeline) fetch(req request) {
	body, err := p.provider.Fetch(req.ctx, req.center, req.radius)
	p.metrics.RequestSeconds.WithLabelValues(p.providerName).Observe(time.Since(req.startedAt).Seconds())

	if !p.loop.Post(func() { p.complete(req, body, err) }) {
		p.log.WarnContext(req.base, "Interaction loop stopped, dropping listings response", "request_id", req.id)
	}
}

// complete runs on the loop once the provider has answered.
func (p *Pipeline) complete(req request, body []byte, err error) {
	ctx := req.base

	if req.generation != p.generation {
		p.log.InfoContext(ctx, "Discarding stale listings response",
			"request_id", req.id,
			"generation", req.generation,
			"current_generation", p.generation,
		)
		return
	}

	p.cancel()
	p.cancel = nil

	if err != nil {
		p.metrics.APIErrors.Inc()
		p.log.ErrorContext(ctx, "Failed to fetch listings", "request_id", req.id, "error", err)
		p.finish(req, err, 0, 0)
		return
	}

	p.setState(StateDecoding, nil)
	listings, err := offers.Decode(body)
	if err != nil {
		p.log.ErrorContext(ctx, "Failed to decode listings", "request_id", req.id, "error", err)
		p.finish(req, err, 0, 0)
		return
	}

	p.buffer = listings

	p.setState(StatePlacing, nil)
	p.place(listings)

	p.log.InfoContext(ctx, "Listings placed",
		"request_id", req.id,
		"listings", len(listings),
		"markers", len(p.placed),
	)
	p.finish(req, nil, len(listings), len(p.placed))
}

// place replaces every node in the scene with markers for listings.
func (p *Pipeline) place(listings []models.Listing) {
	markers := make([]models.Marker, 0, len(listings))
	byTag := make(map[string]models.Marker, len(listings))
	for _, listing := range listings {
		marker, ok := MarkerFromListing(listing, p.opts.Altitude, p.opts.Image)
		if !ok {
			continue
		}
		markers = append(markers, marker)
		byTag[marker.Tag] = marker
	}

	p.scene.RemoveAllNodes()
	for _, marker := range markers {
		p.scene.AddLocationNodeWithConfirmedLocation(marker)
	}

	p.placed = markers
	p.byTag = byTag
	p.metrics.PlacedMarkers.Set(float64(len(markers)))
}

func (p *Pipeline) finish(req request, err error, listings, markers int) {
	run := models.IngestionRun{
		RequestID:  req.id,
		Generation: req.generation,
		Radius:     req.radius,
		Latitude:   req.center.Latitude,
		Longitude:  req.center.Longitude,
		Listings:   listings,
		Markers:    markers,
		StartedAt:  req.startedAt,
		FinishedAt: time.Now(),
	}

	if err != nil {
		p.setState(StateFailed, err)
		p.metrics.IngestionsProcessed.WithLabelValues("failure").Inc()
		run.Status = "failure"
		run.Error = err.Error()
	} else {
		p.setState(StateIdle, nil)
		p.metrics.IngestionsProcessed.WithLabelValues("success").Inc()
		run.Status = "success"
	}

	p.record(req.base, run)
}

func (p *Pipeline) record(ctx context.Context, run models.IngestionRun) {
	if p.recorder == nil {
		return
	}

	go func() {
		rctx, cancel := context.WithTimeout(ctx, p.opts.RecordTimeout)
		defer cancel()

		if err := p.recorder.RecordRun(rctx, run); err != nil {
			p.log.ErrorContext(rctx, "Could not record ingestion run", "request_id", run.RequestID, "error", err)
		}
	}()
}

// reject records a submission refused before any request was issued.
// A request already in flight keeps running.
func (p *Pipeline) reject(ctx context.Context, err error) {
	p.log.WarnContext(ctx, "Listings search rejected", "error", err)
	p.metrics.IngestionsProcessed.WithLabelValues("rejected").Inc()

	if p.cancel != nil {
		p.lastErr = err
		p.updatedAt = time.Now()
		return
	}
	p.setState(StateFailed, err)
}

func (p *Pipeline) supersede(ctx context.Context) {
	if p.cancel == nil {
		return
	}

	p.log.InfoContext(ctx, "Canceling in-flight listings request", "generation", p.generation, "reason", ErrSuperseded)
	p.metrics.IngestionsProcessed.WithLabelValues("superseded").Inc()
	p.cancel()
	p.cancel = nil
}

func (p *Pipeline) setState(state State, err error) {
	p.state = state
	p.lastErr = err
	p.updatedAt = time.Now()
}
