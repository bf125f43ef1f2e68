// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docconv CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/docconv/internal/logging"
	"github.com/pdiddy/docconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration (defaults, file, env, flags).
	cfg types.Config
	// logger is built from cfg.Log before any subcommand runs.
	logger   = zap.NewNop()
	closeLog = func() error { return nil }
)

// rootCmd is the base command for the docconv CLI.
var rootCmd = &cobra.Command{
	Use:   "docconv",
	Short: "Convert documents between DOCX and Markdown",
	Long: `docconv converts single files or whole folders between DOCX and Markdown
using pandoc, run locally or inside a docker/podman container.

Batch conversions mirror the input tree into an optional output folder,
skip outputs that already exist, and can write date-versioned outputs
(report_2026-02-14_v2.md) so earlier results are never overwritten.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		log, closeFn, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		logger, closeLog = log, closeFn
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./docconv.yaml or ~/.config/docconv/docconv.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("log-file", "", "also write JSON logs to this file")
	pf.String("backend", "", "converter backend: auto, pandoc, or container")
	pf.String("pandoc", "", "pandoc executable name or path")
	pf.String("image", "", "container image for the container backend")

	bindFlag("log.verbose", pf.Lookup("verbose"))
	bindFlag("log.file", pf.Lookup("log-file"))
	bindFlag("converter.backend", pf.Lookup("backend"))
	bindFlag("converter.pandoc_path", pf.Lookup("pandoc"))
	bindFlag("converter.image", pf.Lookup("image"))

	def := types.DefaultConfig()
	viper.SetDefault("converter.backend", string(def.Converter.Backend))
	viper.SetDefault("converter.pandoc_path", def.Converter.PandocPath)
	viper.SetDefault("converter.image", def.Converter.Image)
	viper.SetDefault("converter.runtime", def.Converter.Runtime)
	viper.SetDefault("batch.workers", def.Batch.Workers)
	viper.SetDefault("batch.recursive", def.Batch.Recursive)
	viper.SetDefault("batch.progress", def.Batch.Progress)
	viper.SetDefault("log.verbose", def.Log.Verbose)
	viper.SetDefault("log.file", def.Log.File)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docconv"))
		}
	}

	viper.SetEnvPrefix("DOCCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlag ties a config key to a flag so the flag wins when set.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
