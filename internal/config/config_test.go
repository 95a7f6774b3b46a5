package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("padtrack", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return Load(fs)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile != "FrSky" || cfg.Threshold != 0 {
		t.Errorf("Unexpected profile defaults: %+v", cfg)
	}
	if cfg.PollInterval != 50*time.Millisecond || cfg.BaselineDelay != 500*time.Millisecond {
		t.Errorf("Unexpected timing defaults: %v %v", cfg.PollInterval, cfg.BaselineDelay)
	}
	if cfg.Listen != "localhost:8080" || cfg.MQTTBroker != "" || cfg.ConfigFile != "" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestFlagsOverride(t *testing.T) {
	cfg, err := load(t, "--profile", "SquidStick", "--poll-interval", "20ms", "--dry-run", "--tray", "off")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile != "SquidStick" || cfg.PollInterval != 20*time.Millisecond || !cfg.DryRun {
		t.Errorf("Flags not applied: %+v", cfg)
	}
	if cfg.TrayEnabled("windows") {
		t.Errorf("--tray off ignored")
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("PADTRACK_MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("PADTRACK_THRESHOLD", "0.75")

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MQTTBroker != "tcp://broker:1883" || cfg.Threshold != 0.75 {
		t.Errorf("Environment not applied: %+v", cfg)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "padtrack.yaml")
	data := []byte("profile: squidstick\nbaseline_delay: 250ms\nmqtt:\n  broker: tcp://pi:1883\n  topic: radio/fired\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := load(t, "--config", path, "--listen", ":9000")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Profile != "squidstick" || cfg.BaselineDelay != 250*time.Millisecond {
		t.Errorf("File values not applied: %+v", cfg)
	}
	if cfg.MQTTBroker != "tcp://pi:1883" || cfg.MQTTTopic != "radio/fired" {
		t.Errorf("Nested MQTT values not applied: %+v", cfg)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Flag should beat file, got listen %q", cfg.Listen)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, expected %q", cfg.ConfigFile, path)
	}
}

func TestMissingExplicitConfigFile(t *testing.T) {
	if _, err := load(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected an error for a missing explicit config file")
	}
}

func TestValidation(t *testing.T) {
	bad := [][]string{
		{"--profile", "Taranis"},
		{"--threshold", "1.2"},
		{"--poll-interval", "0s"},
		{"--tray", "sometimes"},
		{"--mqtt-broker", "tcp://x:1883", "--mqtt-topic", ""},
	}
	for _, args := range bad {
		if _, err := load(t, args...); err == nil {
			t.Errorf("Expected %v to be rejected", args)
		}
	}
}

func TestTrayAuto(t *testing.T) {
	cfg := &Config{Tray: "auto"}
	if !cfg.TrayEnabled("windows") || cfg.TrayEnabled("linux") {
		t.Fatal("auto should mean Windows only")
	}
}

func TestBrowserURL(t *testing.T) {
	cases := map[string]string{
		":8080":          "http://localhost:8080",
		"localhost:8080": "http://localhost:8080",
		"0.0.0.0:9000":   "http://0.0.0.0:9000",
	}
	for in, want := range cases {
		cfg := &Config{Listen: in}
		if got := cfg.BrowserURL(); got != want {
			t.Errorf("BrowserURL for %q = %q, expected %q", in, got, want)
		}
	}
}
