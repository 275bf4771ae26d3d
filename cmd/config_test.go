package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_RequiresDSNs(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error without a mirror DSN")
	}

	viper.Set("mirror.dsn", "postgres://mirror")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected an error without a source DSN")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	viper.Set("mirror.dsn", "postgres://mirror")
	viper.Set("source.dsn", "user:pass@tcp(localhost:3306)/quiz")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RetryAttempts != 3 {
		t.Errorf("retry attempts = %d, want 3", cfg.RetryAttempts)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("retry delay = %s, want 500ms", cfg.RetryDelay)
	}
	if cfg.SuppressProbeFailures {
		t.Error("probe failure suppression should default off")
	}
	if cfg.ReportDir != "." {
		t.Errorf("report dir = %q, want current directory", cfg.ReportDir)
	}
}
