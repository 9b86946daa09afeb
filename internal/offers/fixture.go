package offers

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/lodestar/internal/models"
)

// FixtureProvider serves a listings payload from a local file, whatever the center and radius.
// It stands in for the remote API during demos and offline runs.
type FixtureProvider struct {
	path string
	log  *slog.Logger
}

// NewFixtureProvider creates a provider reading the payload at path on every fetch.
func NewFixtureProvider(path string, log *slog.Logger) *FixtureProvider {
	return &FixtureProvider{path: path, log: log}
}

// Fetch returns the file content. Read failures and empty files are reported as ErrTransport.
func (fp *FixtureProvider) Fetch(ctx context.Context, center models.GeoPosition, radius string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	fp.log.DebugContext(ctx, "Serving listings fixture",
		"path", fp.path, "lat", center.Latitude, "lon", center.Longitude, "radius", radius)

	body, err := os.ReadFile(fp.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read fixture: %w", ErrTransport, err)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrTransport, ErrEmptyBody)
	}

	return body, nil
}
