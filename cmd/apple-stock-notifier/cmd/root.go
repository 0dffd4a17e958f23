// Package cmd implements the apple-stock-notifier CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/apple-stock-notifier/internal/config"
	"github.com/donaldgifford/apple-stock-notifier/pkg/logger"
)

const (
	envPrefix         = "ASN"
	defaultConfigFile = "config.yaml"
)

// cli carries the root flags shared by every subcommand.
type cli struct {
	v *viper.Viper
}

// NewRootCmd builds the command tree. Flags may also be set through ASN_*
// environment variables, e.g. ASN_LOG_LEVEL=debug.
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "apple-stock-notifier",
		Short: "Telegram bot that alerts on Apple Store pickup availability",
		Long: "apple-stock-notifier watches (product, store) pairs on Apple's in-store\n" +
			"pickup endpoint and messages authorized Telegram users when a watch\n" +
			"comes into or goes out of stock.",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", defaultConfigFile, "config file path")
	pf.String("log-level", "", "log level override (debug, info, warn, error)")
	pf.String("log-format", "", "log format override (text, json)")
	pf.String("output", "table", "output format (table, json)")

	for _, name := range []string{"config", "log-level", "log-format", "output"} {
		cobra.CheckErr(c.v.BindPFlag(name, pf.Lookup(name)))
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(
		c.serveCmd(),
		c.probeCmd(),
		c.watchCmd(),
		c.catalogCmd(),
		c.migrateCmd(),
		versionCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// configPath returns the config file path and whether it may be missing.
// Only the default path is optional.
func (c *cli) configPath() (string, bool) {
	path := c.v.GetString("config")
	return path, path == defaultConfigFile
}

// loadConfig loads the full service config.
func (c *cli) loadConfig() (*config.Config, error) {
	path, optional := c.configPath()
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	c.applyOverrides(cfg)
	return cfg, nil
}

// loadOfflineConfig loads the config for commands that do not run the bot.
func (c *cli) loadOfflineConfig() (*config.Config, error) {
	path, optional := c.configPath()
	cfg, err := config.LoadOffline(path, optional)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	c.applyOverrides(cfg)
	return cfg, nil
}

func (c *cli) applyOverrides(cfg *config.Config) {
	if lvl := c.v.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if f := c.v.GetString("log-format"); f != "" {
		cfg.Logging.Format = f
	}
}

func (*cli) logger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func (c *cli) jsonOutput() bool {
	return c.v.GetString("output") == "json"
}
