package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the lodestar service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the control and monitoring server.
// - Provider: Where listings come from and how they are fetched.
// - ListingBaseURL: Tapping a marker opens ListingBaseURL/{listing id}.
// - Session: Loop periods and map behavior.
// - Marker: How listing markers are anchored and drawn.
// - Database: Optional PostgreSQL settings for the ingestion run log.
type Config struct {
	Env            string         `mapstructure:"env"`              // Env is the current environment: local, development, production.
	Port           int            `mapstructure:"port"`             // Port is the control server port.
	Provider       ProviderConfig `mapstructure:"provider"`         // Provider holds the listings provider configuration.
	ListingBaseURL string         `mapstructure:"listing_base_url"` // ListingBaseURL is the tap-through page prefix.
	Session        SessionConfig  `mapstructure:"session"`          // Session holds loop and map settings.
	Marker         MarkerConfig   `mapstructure:"marker"`           // Marker holds marker settings.
	Database       PostgresConfig `mapstructure:"postgres"`         // Database holds the postgres database configuration.
}

// ProviderConfig selects and tunes the listings provider.
type ProviderConfig struct {
	Type        string        // Type is "remote" or "fixture".
	BaseURL     string        // BaseURL of the offers API.
	FixturePath string        // FixturePath of a JSON payload served by the fixture provider.
	Timeout     time.Duration // Timeout for a single request.
	Retries     int           // Retries after a failed request, 0 disables retrying.
	RateLimit   int           // RateLimit in requests per second, 0 disables limiting.
}

// SessionConfig holds the periodic loop settings.
type SessionConfig struct {
	TelemetryPeriod  time.Duration // TelemetryPeriod between diagnostic refreshes.
	TrackerPeriod    time.Duration // TrackerPeriod between map marker updates.
	ShowMap          bool          // ShowMap enables the map view and its tracker loop.
	CenterOnUser     bool          // CenterOnUser re-centers the map on every tracker tick.
	DisplayDebugging bool          // DisplayDebugging shows the best location estimate on the map.
}

// MarkerConfig holds listing marker settings.
type MarkerConfig struct {
	Altitude float64 // Altitude every marker is anchored at, in meters.
	Image    string  // Image drawn for every marker.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// Enabled reports whether a database host was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration from the environment (and an optional .env file).
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	return &Config{
		Env:            v.GetString("env"),
		Port:           mustInt(v, "port", "failed to parse port for control server from configuration"),
		ListingBaseURL: v.GetString("listing_base_url"),
		Provider: ProviderConfig{
			Type:        v.GetString("provider.type"),
			BaseURL:     v.GetString("provider.base_url"),
			FixturePath: v.GetString("provider.fixture_path"),
			Timeout:     mustDuration(v, "provider.timeout", "failed to parse provider timeout from configuration"),
			Retries:     mustInt(v, "provider.retries", "failed to parse provider retries from configuration, must be an integer types"),
			RateLimit:   mustInt(v, "provider.rate_limit", "failed to parse provider rate limit from configuration, must be an integer types"),
		},
		Session: SessionConfig{
			TelemetryPeriod:  mustDuration(v, "session.telemetry_period", "failed to parse telemetry period from configuration"),
			TrackerPeriod:    mustDuration(v, "session.tracker_period", "failed to parse tracker period from configuration"),
			ShowMap:          mustBool(v, "session.show_map", "failed to parse show map flag from configuration"),
			CenterOnUser:     mustBool(v, "session.center_on_user", "failed to parse center on user flag from configuration"),
			DisplayDebugging: mustBool(v, "session.display_debugging", "failed to parse debugging flag from configuration"),
		},
		Marker: MarkerConfig{
			Altitude: mustFloat(v, "marker.altitude", "failed to parse marker altitude from configuration"),
			Image:    v.GetString("marker.image"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("LODESTAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("listing_base_url", "https://domclick.ru/card")
	v.SetDefault("provider.type", "remote")
	v.SetDefault("provider.base_url", "https://offers-service.domclick.ru")
	v.SetDefault("provider.fixture_path", "")
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("provider.retries", "0")
	v.SetDefault("provider.rate_limit", "5")
	v.SetDefault("session.telemetry_period", "100ms")
	v.SetDefault("session.tracker_period", "500ms")
	v.SetDefault("session.show_map", "true")
	v.SetDefault("session.center_on_user", "true")
	v.SetDefault("session.display_debugging", "false")
	v.SetDefault("marker.altitude", "165")
	v.SetDefault("marker.image", "pin3")
	v.SetDefault("postgres.port", "5432")

	// Database settings keep their conventional unprefixed names.
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.port", "DB_PORT")
	_ = v.BindEnv("postgres.user", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "DB_NAME")

	return v
}

func mustInt(v *viper.Viper, key, msg string) int {
	value, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}

func mustFloat(v *viper.Viper, key, msg string) float64 {
	value, err := strconv.ParseFloat(v.GetString(key), 64)
	if err != nil {
		panic(msg)
	}

	return value
}

func mustDuration(v *viper.Viper, key, msg string) time.Duration {
	value, err := time.ParseDuration(v.GetString(key))
	if err != nil || value <= 0 {
		panic(msg)
	}

	return value
}

func mustBool(v *viper.Viper, key, msg string) bool {
	value, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		panic(msg)
	}

	return value
}
