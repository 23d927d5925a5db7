package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/openclaw/sentinel/internal/domain"
)

const (
	configName = "config"
	configType = "toml"

	octoDirName     = ".octo"
	openclawDirName = ".openclaw"

	keyEnabled          = "monitoring.bloatDetection.enabled"
	keyAutoIntervention = "monitoring.bloatDetection.autoIntervention"
	keyPollInterval     = "monitoring.bloatDetection.pollInterval"
	keyNestedLimit      = "monitoring.bloatDetection.nestedLimit"
	keyGrowthLimit      = "monitoring.bloatDetection.growthLimitBytes"
	keySizeLimit        = "monitoring.bloatDetection.sizeLimitBytes"
	keyMarkerLimit      = "monitoring.bloatDetection.markerLimit"
	keyRestartCommand   = "monitoring.bloatDetection.restartCommand"
)

// Config is the immutable runtime configuration handed to every
// component. Paths are derived from OCTO_HOME (our state) and
// OPENCLAW_HOME (the monitored gateway's state).
type Config struct {
	OctoHome    string
	SessionsDir string
	ArchiveRoot string
	JournalDir  string
	LogFile     string

	Enabled          bool
	AutoIntervention bool
	PollInterval     time.Duration
	Thresholds       domain.Thresholds
	RestartCommand   string
}

// Load reads $OCTO_HOME/config.toml through viper, tolerating a
// missing file, and applies the documented defaults.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	octoHome := envOrDefault("OCTO_HOME", filepath.Join(homeDir, octoDirName))
	openclawHome := envOrDefault("OPENCLAW_HOME", filepath.Join(homeDir, openclawDirName))

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(octoHome)

	defaults := domain.DefaultThresholds()
	v.SetDefault(keyEnabled, true)
	v.SetDefault(keyAutoIntervention, true)
	v.SetDefault(keyPollInterval, "10s")
	v.SetDefault(keyNestedLimit, defaults.NestedLimit)
	v.SetDefault(keyGrowthLimit, defaults.GrowthLimitBytes)
	v.SetDefault(keySizeLimit, defaults.SizeLimitBytes)
	v.SetDefault(keyMarkerLimit, defaults.MarkerLimit)
	v.SetDefault(keyRestartCommand, "openclaw gateway restart")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		OctoHome:    octoHome,
		SessionsDir: filepath.Join(openclawHome, "agents", "main", "sessions"),
		ArchiveRoot: filepath.Join(octoHome, "archives"),
		JournalDir:  filepath.Join(octoHome, "interventions"),
		LogFile:     filepath.Join(octoHome, "sentinel.log"),

		Enabled:          v.GetBool(keyEnabled),
		AutoIntervention: v.GetBool(keyAutoIntervention),
		PollInterval:     v.GetDuration(keyPollInterval),
		Thresholds: domain.Thresholds{
			NestedLimit:      v.GetInt(keyNestedLimit),
			GrowthLimitBytes: v.GetInt64(keyGrowthLimit),
			SizeLimitBytes:   v.GetInt64(keySizeLimit),
			MarkerLimit:      v.GetInt(keyMarkerLimit),
		},
		RestartCommand: v.GetString(keyRestartCommand),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.Thresholds.GrowthLimitBytes <= 0 {
		return fmt.Errorf("growth limit must be positive, got %d", c.Thresholds.GrowthLimitBytes)
	}
	if c.Thresholds.SizeLimitBytes <= 0 {
		return fmt.Errorf("size limit must be positive, got %d", c.Thresholds.SizeLimitBytes)
	}
	if c.Thresholds.NestedLimit < 0 || c.Thresholds.MarkerLimit < 0 {
		return errors.New("marker thresholds must not be negative")
	}
	return nil
}

// PIDDir is where the daemon lock and pid file live.
func (c Config) PIDDir() string {
	return c.OctoHome
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
