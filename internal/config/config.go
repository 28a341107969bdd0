package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the amgo server.
type Config struct {
	Server ServerConfig
	Sim    SimConfig
	Notify NotifyConfig
}

type ServerConfig struct {
	Port     int
	Env      string
	SeedDemo bool
}

// SimConfig tunes the simulated data plane. LatencyScale multiplies every
// artificial delay; 0 disables latency entirely, which is handy for local
// development.
type SimConfig struct {
	Seed              uint64
	PollInterval      time.Duration
	FailureRate       float64
	ConflictRate      float64
	UploadFailureRate float64
	LatencyScale      float64
}

type NotifyConfig struct {
	TTL time.Duration
}

// Load reads configuration from environment variables (and a .env file when
// one is present) and returns a validated Config.
// Returns an error with a descriptive message if any value is invalid.
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:     envInt("AMGO_PORT", 8080),
			Env:      envString("AMGO_ENV", "development"),
			SeedDemo: envBool("AMGO_SEED_DEMO", true),
		},
		Sim: SimConfig{
			Seed:              envUint("SIM_SEED", 0),
			PollInterval:      envDuration("SIM_POLL_INTERVAL", 1500*time.Millisecond),
			FailureRate:       envFloat("SIM_FAILURE_RATE", 0.08),
			ConflictRate:      envFloat("SIM_CONFLICT_RATE", 0.05),
			UploadFailureRate: envFloat("SIM_UPLOAD_FAILURE_RATE", 0.10),
			LatencyScale:      envFloat("SIM_LATENCY_SCALE", 1.0),
		},
		Notify: NotifyConfig{
			TTL: envDuration("NOTIFY_TTL", 5*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("AMGO_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Sim.PollInterval <= 0 {
		return fmt.Errorf("SIM_POLL_INTERVAL must be positive, got %s", c.Sim.PollInterval)
	}

	rates := []struct {
		key string
		val float64
	}{
		{"SIM_FAILURE_RATE", c.Sim.FailureRate},
		{"SIM_CONFLICT_RATE", c.Sim.ConflictRate},
		{"SIM_UPLOAD_FAILURE_RATE", c.Sim.UploadFailureRate},
	}
	for _, r := range rates {
		if r.val < 0 || r.val > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %g", r.key, r.val)
		}
	}

	if c.Sim.LatencyScale < 0 {
		return fmt.Errorf("SIM_LATENCY_SCALE must not be negative, got %g", c.Sim.LatencyScale)
	}

	if c.Notify.TTL <= 0 {
		return fmt.Errorf("NOTIFY_TTL must be positive, got %s", c.Notify.TTL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envUint(key string, defaultVal uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return u
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
