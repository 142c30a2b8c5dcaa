package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timo-reymann/poc-container-image-manager/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config helpers",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigInitImageCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an annotated runtime config template to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeTemplate(cmd, filePath, config.DefaultRuntimeTemplate())
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "./"+config.RuntimeFile, "Path to write config template")

	return cmd
}

func newConfigInitImageCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "init-image",
		Short: "Write an annotated image definition template to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeTemplate(cmd, filePath, config.DefaultImageTemplate())
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "./"+config.DefinitionFile, "Path to write image definition template")

	return cmd
}

func writeTemplate(cmd *cobra.Command, filePath, content string) error {
	target := strings.TrimSpace(filePath)
	if target == "" {
		return fmt.Errorf("template path cannot be empty")
	}

	opts, err := mergedOptions(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := confirmWrite(cmd, opts.DangerousInline, target); err != nil {
		return err
	}

	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config template: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote config template: %s\n", target)
	return nil
}
