// Package config layers flags over environment variables over an
// optional config file, viper-style: flags win, then JOYREMAP_* env
// vars, then joyremap.yaml.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr     string
	ProfilesDir    string
	Profile        string
	PollHz         int
	CaptureTimeout time.Duration
	CaptureSettle  time.Duration
	Tray           bool
}

// Load parses args (excluding the program name) and resolves the final
// configuration.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("joyremap", pflag.ContinueOnError)
	fs.String("listen", ":8080", "monitor HTTP listen address")
	fs.String("profiles-dir", "profiles", "directory holding profile JSON files")
	fs.String("profile", "", "profile to activate on start")
	fs.Int("poll-hz", 60, "pipeline tick rate")
	fs.Duration("capture-timeout", 15*time.Second, "input capture timeout")
	fs.Duration("capture-settle", 200*time.Millisecond, "input capture settle delay")
	fs.Bool("tray", true, "show the system tray icon (Windows)")
	configFile := fs.String("config", "", "config file (default joyremap.yaml in the working directory)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	v.SetEnvPrefix("JOYREMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("joyremap")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		ListenAddr:     v.GetString("listen"),
		ProfilesDir:    v.GetString("profiles-dir"),
		Profile:        v.GetString("profile"),
		PollHz:         v.GetInt("poll-hz"),
		CaptureTimeout: v.GetDuration("capture-timeout"),
		CaptureSettle:  v.GetDuration("capture-settle"),
		Tray:           v.GetBool("tray"),
	}
	if cfg.PollHz <= 0 {
		return Config{}, fmt.Errorf("poll-hz must be positive, got %d", cfg.PollHz)
	}
	return cfg, nil
}

// TickInterval converts the poll rate into a ticker interval.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.PollHz)
}
