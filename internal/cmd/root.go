// Package cmd wires the image-manager CLI: cobra commands, option
// precedence (flags > environment > config file > defaults) and logging.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timo-reymann/poc-container-image-manager/internal/config"
)

type runtimeOptions struct {
	ConfigPath      string
	ImagesDir       string
	OutputDir       string
	SnapshotID      string
	Cleanup         bool
	Debug           bool
	DangerousInline bool
}

var rootOpts runtimeOptions

func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	showVersion := false

	cmd := &cobra.Command{
		Use:           "image-manager",
		Short:         "Generate container build artifacts from declarative image definitions",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprint(cmd.OutOrStdout(), formatVersion(buildVersion, buildDate))
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigPath, "config", "f", "", "Path to YAML config file (default: ./"+config.RuntimeFile+" when present)")
	cmd.PersistentFlags().StringVar(&rootOpts.ImagesDir, "images", "", "Root directory scanned for image definitions")
	cmd.PersistentFlags().StringVarP(&rootOpts.OutputDir, "output", "o", "", "Output root for generated artifacts")
	cmd.PersistentFlags().StringVar(&rootOpts.SnapshotID, "snapshot-id", "", "Suffix for internal base image references (MR/branch builds)")
	cmd.PersistentFlags().BoolVar(&rootOpts.Cleanup, "cleanup", false, "Remove output directories of images no longer defined")
	cmd.PersistentFlags().BoolVar(&rootOpts.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&rootOpts.DangerousInline, "dangerous-inline", false, "Skip write confirmation prompts and perform writes inline")
	cmd.Flags().BoolVar(&showVersion, "version", false, "Print CLI version")

	cmd.AddCommand(newVersionCmd(buildVersion, buildDate))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newOrderCmd())

	return cmd
}

func mergedOptions(cmd *cobra.Command) (runtimeOptions, error) {
	merged := runtimeOptions{
		ImagesDir: "./images",
		OutputDir: "./dist",
	}

	configPath := rootOpts.ConfigPath
	if configPath == "" {
		if _, err := os.Stat(config.RuntimeFile); err == nil {
			configPath = config.RuntimeFile
		}
	}

	if configPath != "" {
		fileCfg, err := config.LoadRuntime(configPath)
		if err != nil {
			return runtimeOptions{}, err
		}

		if fileCfg.ImagesDir != "" {
			merged.ImagesDir = fileCfg.ImagesDir
		}
		if fileCfg.OutputDir != "" {
			merged.OutputDir = fileCfg.OutputDir
		}
		if fileCfg.SnapshotID != "" {
			merged.SnapshotID = fileCfg.SnapshotID
		}
		if fileCfg.Cleanup != nil {
			merged.Cleanup = *fileCfg.Cleanup
		}
		if fileCfg.Debug != nil {
			merged.Debug = *fileCfg.Debug
		}
	}

	if err := applyEnvOverrides(&merged); err != nil {
		return runtimeOptions{}, err
	}

	if cmd.Flags().Changed("images") {
		merged.ImagesDir = rootOpts.ImagesDir
	}
	if cmd.Flags().Changed("output") {
		merged.OutputDir = rootOpts.OutputDir
	}
	if cmd.Flags().Changed("snapshot-id") {
		merged.SnapshotID = rootOpts.SnapshotID
	}
	if cmd.Flags().Changed("cleanup") {
		merged.Cleanup = rootOpts.Cleanup
	}
	if cmd.Flags().Changed("debug") {
		merged.Debug = rootOpts.Debug
	}
	if cmd.Flags().Changed("dangerous-inline") {
		merged.DangerousInline = rootOpts.DangerousInline
	}

	merged.ImagesDir = strings.TrimSpace(merged.ImagesDir)
	merged.OutputDir = strings.TrimSpace(merged.OutputDir)
	merged.SnapshotID = strings.TrimSpace(merged.SnapshotID)

	if merged.ImagesDir == "" {
		merged.ImagesDir = "./images"
	}
	if merged.OutputDir == "" {
		merged.OutputDir = "./dist"
	}

	return merged, nil
}

func applyEnvOverrides(opts *runtimeOptions) error {
	if value, ok := getenvTrim("IMAGE_MANAGER_IMAGES"); ok {
		opts.ImagesDir = value
	}
	if value, ok := getenvTrim("IMAGE_MANAGER_OUTPUT"); ok {
		opts.OutputDir = value
	}
	if value, ok := getenvTrim("IMAGE_MANAGER_SNAPSHOT_ID"); ok {
		opts.SnapshotID = value
	}

	if value, ok := getenvTrim("IMAGE_MANAGER_CLEANUP"); ok {
		parsed, err := parseBoolEnv("IMAGE_MANAGER_CLEANUP", value)
		if err != nil {
			return err
		}
		opts.Cleanup = parsed
	}
	if value, ok := getenvTrim("IMAGE_MANAGER_DEBUG"); ok {
		parsed, err := parseBoolEnv("IMAGE_MANAGER_DEBUG", value)
		if err != nil {
			return err
		}
		opts.Debug = parsed
	}
	if value, ok := getenvTrim("IMAGE_MANAGER_DANGEROUS_INLINE"); ok {
		parsed, err := parseBoolEnv("IMAGE_MANAGER_DANGEROUS_INLINE", value)
		if err != nil {
			return err
		}
		opts.DangerousInline = parsed
	}
	return nil
}

// newLogger builds the slog logger commands hand to the library packages.
func newLogger(opts runtimeOptions) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func getenvTrim(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func parseBoolEnv(name, raw string) (bool, error) {
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s as bool: %w", name, err)
	}
	return parsed, nil
}
