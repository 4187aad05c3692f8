package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"yamlcheck/internal/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default .yamlcheck.toml",
		Long: `Init writes the default configuration to .yamlcheck.toml in the given directory,
or the current one. It refuses to overwrite an existing configuration unless
--force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().Bool("force", false, "overwrite an existing configuration file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return failure("failed to get force flag: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	st, err := os.Stat(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(target, 0o755); err != nil {
			return failure("failed to create directory %q: %w", target, err)
		}
	case err != nil:
		return failure("%w", err)
	case !st.IsDir():
		return failure("%q is not a directory", target)
	}

	if !force {
		for _, name := range config.FileNames {
			existing := filepath.Join(target, name)
			if _, err := os.Stat(existing); err == nil {
				return failure("configuration already exists: %s", existing)
			}
		}
	}

	data, err := config.EncodeTOML(config.Default())
	if err != nil {
		return failure("failed to encode configuration: %w", err)
	}
	path := filepath.Join(target, config.FileNames[0])
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return failure("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
