// Package offers fetches nearby real-estate listings and decodes them.
package offers

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// Provider is an interface that defines a method for fetching the raw listings
// payload around a center point. The radius is passed through as typed by the user.
type Provider interface {
	Fetch(ctx context.Context, center models.GeoPosition, radius string) ([]byte, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Error classes surfaced to the ingestion pipeline.
var (
	ErrTransport = errors.New("listings transport error")
	ErrDecode    = errors.New("listings decode error")
)

// Causes wrapped by the error classes above.
var (
	ErrEmptyBody       = errors.New("listings API returned empty body")
	ErrPayloadTooLarge = errors.New("listings payload too large")
	ErrMissingResult   = errors.New("listings payload has no result object")
)
