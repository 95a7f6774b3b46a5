// Package config loads padtrack settings from flags, an optional config
// file and PADTRACK_* environment variables, in that order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/padtrack/internal/switcher"
)

// Config holds all application configuration values.
type Config struct {
	// Radio profile name and an optional explicit threshold override.
	Profile   string
	Threshold float64

	PollInterval  time.Duration
	BaselineDelay time.Duration
	// KeyboardSettle is how long to wait after creating the virtual keyboard.
	KeyboardSettle time.Duration
	DryRun         bool

	// Web view
	Listen string

	// Tray: "auto" enables it on Windows only.
	Tray string

	// MQTT fire feed, disabled when Broker is empty.
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

const envPrefix = "PADTRACK"

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", switcher.DefaultProfile)
	v.SetDefault("threshold", 0.0)
	v.SetDefault("poll_interval", 50*time.Millisecond)
	v.SetDefault("baseline_delay", switcher.DefaultBaselineDelay)
	v.SetDefault("keyboard_settle", 2*time.Second)
	v.SetDefault("dry_run", false)
	v.SetDefault("listen", "localhost:8080")
	v.SetDefault("tray", "auto")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", "padtrack/fired")
	v.SetDefault("mqtt.client_id", "padtrack")
}

// Flags declares the command line flags on fs.
func Flags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "config file (default ./padtrack.{yaml,toml,json} if present)")
	fs.StringP("profile", "p", switcher.DefaultProfile, "radio profile: FrSky (0.8) or SquidStick (0.9)")
	fs.Float64P("threshold", "t", 0, "axis toggle threshold in (0, 1], overrides the profile")
	fs.Duration("poll-interval", 50*time.Millisecond, "joystick poll period")
	fs.Duration("baseline-delay", switcher.DefaultBaselineDelay, "delay before recording the assignment baseline")
	fs.Duration("keyboard-settle", 2*time.Second, "wait after creating the virtual keyboard")
	fs.Bool("dry-run", false, "log key presses instead of sending them")
	fs.StringP("listen", "l", "localhost:8080", "web view listen address")
	fs.String("tray", "auto", "system tray: auto, on or off")
	fs.String("mqtt-broker", "", "MQTT broker URL for fired actions, e.g. tcp://localhost:1883")
	fs.String("mqtt-topic", "padtrack/fired", "MQTT topic for fired actions")
	fs.String("mqtt-client-id", "padtrack", "MQTT client id")
}

var flagKeys = map[string]string{
	"profile":         "profile",
	"threshold":       "threshold",
	"poll-interval":   "poll_interval",
	"baseline-delay":  "baseline_delay",
	"keyboard-settle": "keyboard_settle",
	"dry-run":         "dry_run",
	"listen":          "listen",
	"tray":            "tray",
	"mqtt-broker":     "mqtt.broker",
	"mqtt-topic":      "mqtt.topic",
	"mqtt-client-id":  "mqtt.client_id",
}

// Load resolves the configuration for an already parsed flag set.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for flag, key := range flagKeys {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", flag)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, _ := fs.GetString("config")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("padtrack")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	cfg := &Config{
		Profile:        v.GetString("profile"),
		Threshold:      v.GetFloat64("threshold"),
		PollInterval:   v.GetDuration("poll_interval"),
		BaselineDelay:  v.GetDuration("baseline_delay"),
		KeyboardSettle: v.GetDuration("keyboard_settle"),
		DryRun:         v.GetBool("dry_run"),
		Listen:         v.GetString("listen"),
		Tray:           strings.ToLower(v.GetString("tray")),
		MQTTBroker:     v.GetString("mqtt.broker"),
		MQTTTopic:      v.GetString("mqtt.topic"),
		MQTTClientID:   v.GetString("mqtt.client_id"),
		ConfigFile:     v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := switcher.LookupProfile(c.Profile); err != nil {
		return err
	}
	if c.Threshold != 0 && !switcher.ValidThreshold(c.Threshold) {
		return errors.Wrapf(switcher.ErrInvalidThreshold, "threshold %v", c.Threshold)
	}
	if c.PollInterval <= 0 {
		return errors.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.BaselineDelay < 0 {
		return errors.Errorf("baseline_delay must not be negative, got %v", c.BaselineDelay)
	}
	switch c.Tray {
	case "auto", "on", "off":
	default:
		return errors.Errorf("tray must be auto, on or off, got %q", c.Tray)
	}
	if c.MQTTBroker != "" && c.MQTTTopic == "" {
		return errors.New("mqtt.topic must be set when mqtt.broker is")
	}
	return nil
}

// TrayEnabled resolves the tray setting for the given GOOS.
func (c *Config) TrayEnabled(goos string) bool {
	switch c.Tray {
	case "on":
		return true
	case "off":
		return false
	default:
		return goos == "windows"
	}
}

// BrowserURL is the address of the web view for the listen setting.
func (c *Config) BrowserURL() string {
	listen := c.Listen
	if strings.HasPrefix(listen, ":") {
		listen = "localhost" + listen
	}
	return "http://" + listen
}
