package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui/internal/cli"
	"github.com/aretw0/sapgui/internal/config"
	"github.com/aretw0/sapgui/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sapgui",
	Short: "sapgui inspects and drives a running SAP GUI for Windows",
	Long: `sapgui attaches to a running SAP GUI through its scripting interface,
lists the open sessions, reads the current transaction and performs raw
property and method calls. It can also serve the same operations over HTTP
or as MCP tools.

Scripting must be enabled on both the client and the application server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file loaded before the config")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().Bool("fake", false, "Use the in-memory demo GUI instead of COM")
}

// loadConfig applies the dotenv file, the config file and flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(cfg.Log.Format, level)
}

// newRuntime builds the runtime for a command. The caller must Close it.
func newRuntime(cmd *cobra.Command) (*cli.Runtime, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, cfg, err
	}
	fake, _ := cmd.Flags().GetBool("fake")

	rt, err := cli.NewRuntime(cli.Options{Config: cfg, Logger: logger, Fake: fake})
	if err != nil {
		return nil, cfg, err
	}
	return rt, cfg, nil
}

func closeRuntime(rt *cli.Runtime) {
	if err := rt.Close(); err != nil {
		rt.Logger.Warn("Shutdown incomplete", "err", err)
	}
}
