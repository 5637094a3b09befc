package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/GregMSThompson/dbadmin/pkg/client"
)

const envPrefix = "DBADMIN_"

// Settings are the terminal client's options.
type Settings struct {
	APIURL   string        `koanf:"api_url"`
	Token    string        `koanf:"token"`
	Output   string        `koanf:"output"`
	LogLevel string        `koanf:"log_level"`
	Timeout  time.Duration `koanf:"timeout"`
}

// loadSettings merges, lowest first: defaults, DBADMIN_ variables, flags
// that were set explicitly.
func loadSettings(flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"api_url":   client.DefaultBaseURL,
		"output":    "table",
		"log_level": "warn",
		"timeout":   "60s",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if s.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}

	switch s.Output {
	case "table", "json":
	default:
		return nil, fmt.Errorf("unknown output format %q (want table or json)", s.Output)
	}
	return &s, nil
}
