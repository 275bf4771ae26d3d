package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved configuration for one run, with Flag > Config >
// Env > Default precedence handled by viper.
type Config struct {
	MirrorDSN             string
	SourceDSN             string
	SuppressProbeFailures bool
	RetryAttempts         int
	RetryDelay            time.Duration
	ReportDir             string
}

// LoadConfig resolves and validates configuration. Missing credentials are
// the one class of error that fails the whole run.
func LoadConfig() (*Config, error) {
	viper.SetDefault("sync.suppress_probe_failures", false)
	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.delay_ms", 500)
	viper.SetDefault("settings.report_dir", ".")

	cfg := &Config{
		MirrorDSN:             viper.GetString("mirror.dsn"),
		SourceDSN:             viper.GetString("source.dsn"),
		SuppressProbeFailures: viper.GetBool("sync.suppress_probe_failures"),
		RetryAttempts:         viper.GetInt("retry.max_attempts"),
		RetryDelay:            time.Duration(viper.GetInt("retry.delay_ms")) * time.Millisecond,
		ReportDir:             viper.GetString("settings.report_dir"),
	}
	if cfg.MirrorDSN == "" {
		return nil, fmt.Errorf("mirror.dsn is required (via flag, config file or MIRROR_DSN)")
	}
	if cfg.SourceDSN == "" {
		return nil, fmt.Errorf("source.dsn is required (via flag, config file or SOURCE_DSN)")
	}
	return cfg, nil
}
