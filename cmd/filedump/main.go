// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the filedump CLI. It dispatches
// between direct extraction (extract), the saved-project registry (svd), and
// the run journal (history); the engines live under internal/.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/filedump/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the filedump CLI.
var rootCmd = &cobra.Command{
	Use:   "filedump",
	Short: "Extract the files of a directory with optional filtering",
	Long: `filedump copies files out of a source directory into a destination,
optionally filtered by a basename glob pattern and optionally flattened into
the destination root.

Use extract for a one-off run, or svd to save a named project (a fixed
combination of source, destination, filter, and placement mode) and replay
it later by name.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./filedump.yaml or ~/.config/filedump/filedump.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("filedump")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(configDir())
	}

	viper.SetEnvPrefix("FILEDUMP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configDir returns the filedump directory under the user config root. It
// also holds the default registry file and history database.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "filedump")
}

// registryConfig returns the registry settings from config: the
// registry.path key, or projects.yaml in the config directory.
func registryConfig() types.RegistryConfig {
	path := viper.GetString("registry.path")
	if path == "" {
		path = filepath.Join(configDir(), "projects.yaml")
	}
	return types.RegistryConfig{Path: path}
}

// historyConfig returns the run-journal settings from config, with the
// config directory as the default location.
func historyConfig() types.HistoryConfig {
	dir := viper.GetString("history.dir")
	if dir == "" {
		dir = configDir()
	}
	return types.HistoryConfig{
		Dir:        dir,
		MaxResults: viper.GetInt("history.max_results"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
