package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"runbox/internal/model"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "runbox"
	// EnvPrefix prefixes every environment override (RUNBOX_POLICY, RUNBOX_WEB_ADDR, ...).
	EnvPrefix = "RUNBOX"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
)

// ErrInvalidPolicy is returned when the configured permission policy is unknown.
var ErrInvalidPolicy = errors.New("invalid permission policy")

// Config is the resolved runbox configuration.
type Config struct {
	// Policy selects which permission bits make a file runnable.
	Policy model.PermissionPolicy `mapstructure:"policy"`
	// PathEnv names the environment variable holding the search path.
	PathEnv string `mapstructure:"path_env"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// StatusDelay is how long a completion message stays in the launcher.
	StatusDelay time.Duration `mapstructure:"status_delay"`
	// Suggestions caps the fuzzy suggestion list in the launcher.
	Suggestions int       `mapstructure:"suggestions"`
	Web         WebConfig `mapstructure:"web"`
}

// WebConfig configures the local HTTP API.
type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Policy:      model.PolicyExecutable,
		PathEnv:     "PATH",
		LogLevel:    "warn",
		StatusDelay: time.Second,
		Suggestions: 10,
		Web:         WebConfig{Addr: "127.0.0.1:8080"},
	}
}

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFile forces loading from a specific file when set. A missing
	// file is then an error.
	ConfigFile string
	// ConfigDir overrides the directory searched for config.yaml.
	ConfigDir string
	// Flags, when set, override file and environment values for the
	// flags the user actually passed.
	Flags *pflag.FlagSet
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"policy":   "policy",
	"web.addr": "addr",
}

// Dir returns the default configuration directory, e.g. ~/.config/runbox.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Load resolves configuration from defaults, the config file, RUNBOX_*
// environment variables and flags, in increasing priority.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("policy", string(defaults.Policy))
	v.SetDefault("path_env", defaults.PathEnv)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("status_delay", defaults.StatusDelay)
	v.SetDefault("suggestions", defaults.Suggestions)
	v.SetDefault("web.addr", defaults.Web.Addr)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		dir := opts.ConfigDir
		if dir == "" {
			// No config directory (e.g. $HOME unset) just means defaults.
			dir, _ = Dir()
		}
		if dir != "" {
			v.SetConfigName(ConfigFileName)
			v.SetConfigType(ConfigFileExt)
			v.AddConfigPath(dir)
			if err := v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return nil, fmt.Errorf("failed to read config in %s: %w", dir, err)
				}
			}
		}
	}

	if opts.Flags != nil {
		for key, name := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the decoder cannot.
func (c *Config) Validate() error {
	c.Policy = model.PermissionPolicy(strings.ToLower(string(c.Policy)))
	if !c.Policy.Valid() {
		return fmt.Errorf("%w %q (want %s or %s)", ErrInvalidPolicy, c.Policy, model.PolicyExecutable, model.PolicyReadable)
	}
	if c.PathEnv == "" {
		c.PathEnv = "PATH"
	}
	if c.StatusDelay <= 0 {
		c.StatusDelay = DefaultConfig().StatusDelay
	}
	if c.Suggestions < 0 {
		c.Suggestions = 0
	}
	return nil
}
