package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Splash timing matches the web loader
	if cfg.Splash.Target() != 3*time.Second {
		t.Errorf("Splash.Target() = %v, want 3s", cfg.Splash.Target())
	}
	if cfg.Splash.Min() != 2*time.Second {
		t.Errorf("Splash.Min() = %v, want 2s", cfg.Splash.Min())
	}
	if cfg.Splash.Max() != 10*time.Second {
		t.Errorf("Splash.Max() = %v, want 10s", cfg.Splash.Max())
	}
	if cfg.Splash.Reveal() != 1200*time.Millisecond {
		t.Errorf("Splash.Reveal() = %v, want 1.2s", cfg.Splash.Reveal())
	}
	if diff := cmp.Diff([]string{"/privacy", "/terms", "/sitemap"}, cfg.Splash.SkipRoutes); diff != "" {
		t.Errorf("Splash.SkipRoutes mismatch (-want +got):\n%s", diff)
	}

	if cfg.Preload.BatchSize != 6 {
		t.Errorf("Preload.BatchSize = %d, want 6", cfg.Preload.BatchSize)
	}
	if cfg.Preload.Timeout() != 10*time.Second {
		t.Errorf("Preload.Timeout() = %v, want 10s", cfg.Preload.Timeout())
	}

	gotFog := []time.Duration{cfg.Transition.Enter(), cfg.Transition.Navigate(), cfg.Transition.Hold(), cfg.Transition.Exit()}
	wantFog := []time.Duration{600 * time.Millisecond, 100 * time.Millisecond, 500 * time.Millisecond, 800 * time.Millisecond}
	if diff := cmp.Diff(wantFog, gotFog); diff != "" {
		t.Errorf("Transition timings mismatch (-want +got):\n%s", diff)
	}

	if !cfg.Network.Enabled {
		t.Error("Network.Enabled should be true by default")
	}
	if cfg.Network.Interval() != 10*time.Second || cfg.Network.Timeout() != 3*time.Second {
		t.Errorf("Network timings = %v/%v, want 10s/3s", cfg.Network.Interval(), cfg.Network.Timeout())
	}

	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false by default")
	}
}

func TestResolveProbeURL(t *testing.T) {
	cfg := Default()
	cfg.Site.Origin = "https://example.com"

	if got := cfg.ResolveProbeURL(); got != "https://example.com" {
		t.Errorf("ResolveProbeURL() = %q, want origin", got)
	}

	cfg.Network.ProbeURL = "https://status.example.com/ping"
	if got := cfg.ResolveProbeURL(); got != "https://status.example.com/ping" {
		t.Errorf("ResolveProbeURL() = %q, want explicit probe url", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/folio" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/folio")
		}
		if got := ConfigFile(); got != "/custom/config/folio/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)

		want := filepath.Join(home, ".config", "folio")
		if got := ConfigDir(); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/var/state")
	if got := DataDir(); got != "/var/state/folio" {
		t.Errorf("DataDir() = %q, want /var/state/folio", got)
	}

	l := LoggingConfig{}
	if l.ResolveLogDir() != "/var/state/folio" {
		t.Errorf("ResolveLogDir() = %q, want DataDir()", l.ResolveLogDir())
	}
	l.Dir = "/tmp/logs"
	if l.ResolveLogDir() != "/tmp/logs" {
		t.Errorf("ResolveLogDir() = %q, want explicit dir", l.ResolveLogDir())
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := Get()
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Get() without a config file should equal Default() (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("preload.batch_size", 0)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for batch_size 0")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Load() error type = %T, want ValidationErrors", err)
	}
	if verrs[0].Field != "preload.batch_size" {
		t.Errorf("Field = %q, want preload.batch_size", verrs[0].Field)
	}
}
