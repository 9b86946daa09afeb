package offers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ProviderType represents the type of listings provider.
type ProviderType string

const (
	// ProviderTypeRemote fetches listings from the offers HTTP API.
	ProviderTypeRemote ProviderType = "remote"
	// ProviderTypeFixture serves listings from a local JSON file.
	ProviderTypeFixture ProviderType = "fixture"
)

// ProviderConfig holds configuration for creating a listings provider.
type ProviderConfig struct {
	Type        ProviderType  // Type of provider to create
	BaseURL     string        // API base URL (remote provider)
	FixturePath string        // Payload file (fixture provider)
	Timeout     time.Duration // Request timeout (remote provider)
	Retries     int           // Extra attempts after a failed request (remote provider)
	RateLimit   int           // Requests per second, 0 for unlimited (remote provider)
	Logger      *slog.Logger  // Logger for the provider
}

// NewProvider creates a listings provider based on the provided configuration.
//
// Supported provider types:
// - "remote": the offers HTTP API (requires base URL)
// - "fixture": a JSON payload on disk (requires path)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeRemote:
		return newRemoteProvider(config)
	case ProviderTypeFixture:
		return newFixtureProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func newRemoteProvider(config ProviderConfig) (Provider, error) {
	if config.BaseURL == "" {
		return nil, errors.New("base URL is required for remote provider")
	}

	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
		config.Logger.Warn("Request timeout for listings API not set, set a default value", "value", config.Timeout)
	}

	return NewRemoteProvider(config.BaseURL, config.Timeout, config.Retries, config.RateLimit, config.Logger), nil
}

func newFixtureProvider(config ProviderConfig) (Provider, error) {
	if config.FixturePath == "" {
		return nil, errors.New("fixture path is required for fixture provider")
	}

	return NewFixtureProvider(config.FixturePath, config.Logger), nil
}
