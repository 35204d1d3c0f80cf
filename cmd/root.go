// Package cmd provides the command-line interface for trackforge with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --game-version, etc.) - highest priority
//	2. TRACKFORGE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (TRACKFORGE_GAME_VERSION, etc.)
//	4. Configuration files (.trackforge.yml) - lowest priority
//
// Environment Variables:
//
//	TRACKFORGE_CONFIG_FILE: Path to custom configuration file
//	TRACKFORGE_PATHS_TEMPLATES_DIR: Override the templates directory
//	TRACKFORGE_GAME_VERSION: Override the active game version
//	And the rest following the TRACKFORGE_<SECTION>_<OPTION> pattern
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/trackforge/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trackforge",
	Short: "Create, validate and maintain achievement tracker templates",
	Long: `Trackforge maintains the templates an achievement tracker reads: the
advancements, stats, unlocks, custom goals and multi-stage goals of a
category, together with their per-language display names.

Every save synchronizes legacy helper stats, validates the template and only
then writes it, so a template on disk is always consistent.

Quick Start:
  trackforge list                         List templates of the active version
  trackforge create all_advancements      Create an empty template
  trackforge validate --all               Validate every template
  trackforge import all_advancements save.json --all
                                          Merge entries from a parsed save

Templates are named category or category/flag and belong to the game
version selected with --game-version (default from configuration).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// flagBindings maps persistent flags onto configuration keys.
var flagBindings = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"game-version":  "game.version",
	"templates-dir": "paths.templates_dir",
	"icons-dir":     "paths.icons_dir",
}

func init() {
	rootCmd.PersistentPreRunE = initConfig
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .trackforge.yml, can also use TRACKFORGE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringP("game-version", "g", "", "game version whose templates are used")
	rootCmd.PersistentFlags().String("templates-dir", "", "templates root directory")
	rootCmd.PersistentFlags().String("icons-dir", "", "icons root directory")
}

// initConfig binds the persistent flags and reads configuration. It runs
// before every command, so the bindings survive a viper reset.
func initConfig(cmd *cobra.Command, _ []string) error {
	for name, key := range flagBindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	return config.Init(cfgFile)
}
