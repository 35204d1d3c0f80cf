// Package config provides configuration management for trackforge using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// Configuration is read from .trackforge.yml in the working directory (or
// the file named by --config / TRACKFORGE_CONFIG_FILE), and every key can
// be overridden with a TRACKFORGE_<SECTION>_<KEY> environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/logging"
	"github.com/conneroisu/trackforge/internal/scanner"
	"github.com/conneroisu/trackforge/internal/validation"
	"github.com/conneroisu/trackforge/internal/version"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "TRACKFORGE"
	// FileName is the config file searched in the working directory.
	FileName = ".trackforge"
	// ConfigFileEnv names an explicit config file.
	ConfigFileEnv = "TRACKFORGE_CONFIG_FILE"
)

type Config struct {
	Paths  PathsConfig  `mapstructure:"paths" yaml:"paths"`
	Game   GameConfig   `mapstructure:"game" yaml:"game"`
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

type PathsConfig struct {
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`
	IconsDir     string `mapstructure:"icons_dir" yaml:"icons_dir"`
}

type GameConfig struct {
	Version      string `mapstructure:"version" yaml:"version"`
	LegacyCutoff string `mapstructure:"legacy_cutoff" yaml:"legacy_cutoff"`
}

type EditorConfig struct {
	PlaceholderIcon string `mapstructure:"placeholder_icon" yaml:"placeholder_icon"`
	MaxNameLength   int    `mapstructure:"max_name_length" yaml:"max_name_length"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Paths: PathsConfig{
			TemplatesDir: "resources/templates",
			IconsDir:     "resources/icons",
		},
		Game: GameConfig{
			Version:      "1.16.1",
			LegacyCutoff: version.DefaultLegacyCutoff,
		},
		Editor: EditorConfig{
			PlaceholderIcon: "blocks/placeholder.png",
			MaxNameLength:   validation.DefaultMaxNameLength,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers the defaults with v so that environment variables
// and flags bound to the same keys resolve against them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("paths.templates_dir", d.Paths.TemplatesDir)
	v.SetDefault("paths.icons_dir", d.Paths.IconsDir)
	v.SetDefault("game.version", d.Game.Version)
	v.SetDefault("game.legacy_cutoff", d.Game.LegacyCutoff)
	v.SetDefault("editor.placeholder_icon", d.Editor.PlaceholderIcon)
	v.SetDefault("editor.max_name_length", d.Editor.MaxNameLength)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Init prepares the global viper instance: defaults, environment overrides
// and the config file. cfgFile wins over TRACKFORGE_CONFIG_FILE; without
// either, .trackforge.yml is searched in the working directory and its
// absence is not an error.
func Init(cfgFile string) error {
	SetDefaults(viper.GetViper())
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = os.Getenv(ConfigFileEnv)
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(FileName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fe.WrapConfig(err, fe.ErrCodeConfigInvalid, "failed to read config file").WithPath(cfgFile)
	}
	return nil
}

// Load unmarshals the global viper state into a validated Config.
func Load() (*Config, error) {
	config := Defaults()
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fe.WrapConfig(err, fe.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GameVersion parses the configured game version with the configured
// legacy cutoff.
func (c *Config) GameVersion() (version.Game, error) {
	return c.ParseVersion(c.Game.Version)
}

// ParseVersion parses s with the configured legacy cutoff.
func (c *Config) ParseVersion(s string) (version.Game, error) {
	v, err := version.ParseGameWithCutoff(s, c.Game.LegacyCutoff)
	if err != nil {
		return version.Game{}, fe.WrapConfig(err, fe.ErrCodeInvalidVersion, fmt.Sprintf("invalid game version '%s'", s))
	}
	return v, nil
}

// Layout returns the template file layout below the templates directory.
func (c *Config) Layout() scanner.Layout {
	return scanner.Layout{Root: c.Paths.TemplatesDir}
}

// LoggerConfig builds the logger configuration. Unknown levels fall back to
// info; Load already rejected them.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		lc.Level = level
	}
	lc.Format = c.Log.Format
	return lc
}

// validateConfig validates configuration values for correctness. Every
// failure is a config error carrying the offending key in its context.
func validateConfig(config *Config) error {
	if err := validatePath("paths.templates_dir", config.Paths.TemplatesDir); err != nil {
		return err
	}
	if err := validatePath("paths.icons_dir", config.Paths.IconsDir); err != nil {
		return err
	}

	cutoff, err := version.ParseGame(config.Game.LegacyCutoff)
	if err != nil {
		return wrapInvalid("game.legacy_cutoff", err)
	}
	if !cutoff.IsRelease() {
		return invalid("game.legacy_cutoff", fmt.Sprintf("must be a release version such as 1.6.4, got %q", config.Game.LegacyCutoff))
	}
	if _, err := version.ParseGameWithCutoff(config.Game.Version, config.Game.LegacyCutoff); err != nil {
		return wrapInvalid("game.version", err)
	}

	if config.Editor.MaxNameLength <= 0 {
		return invalid("editor.max_name_length", fmt.Sprintf("must be positive, got %d", config.Editor.MaxNameLength))
	}
	if config.Editor.PlaceholderIcon != "" {
		if err := validation.ValidateRelativePath(config.Editor.PlaceholderIcon); err != nil {
			return wrapInvalid("editor.placeholder_icon", err)
		}
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return wrapInvalid("log.level", err)
	}
	switch config.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format", fmt.Sprintf("must be text or json, got %q", config.Log.Format))
	}
	return nil
}

// validatePath validates a directory setting
func validatePath(key, path string) error {
	if strings.TrimSpace(path) == "" {
		return invalid(key, "cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return invalid(key, "contains a NUL byte")
	}
	return nil
}

func invalid(key, msg string) *fe.ForgeError {
	return fe.NewConfigError(fe.ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s %s", key, msg)).
		WithContext("key", key)
}

func wrapInvalid(key string, err error) *fe.ForgeError {
	return fe.WrapConfig(err, fe.ErrCodeConfigInvalid, "invalid configuration: "+key).
		WithContext("key", key)
}
