package main

import (
	"github.com/spf13/cobra"

	"yamlcheck/internal/config"
	"yamlcheck/internal/diagfmt"
	"yamlcheck/internal/driver"
	"yamlcheck/internal/source"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.yaml",
		Short: "Print the concrete syntax tree of a YAML file",
		Long:  `Parse scans and parses a YAML file without running any rule and prints its concrete syntax tree`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("yaml-version", "", "YAML version for documents without a %YAML directive (1.1|1.2)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer cleanup()

	yamlVersion, err := cmd.Flags().GetString("yaml-version")
	if err != nil {
		return failure("failed to get yaml-version flag: %w", err)
	}
	switch yamlVersion {
	case "", config.YAML11, config.YAML12:
	default:
		return failure("unsupported YAML version %q (expected %s or %s)", yamlVersion, config.YAML11, config.YAML12)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return failure("failed to get max-diagnostics flag: %w", err)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return failure("%w", err)
	}
	tree, bag, parseErr := driver.Parse(fs, id, driver.Options{MaxDiagnostics: maxDiagnostics, YAMLVersion: yamlVersion})
	if err := printDiagnostics(cmd, fs.Get(id), bag); err != nil {
		return failure("%w", err)
	}
	if tree != nil {
		if err := diagfmt.FormatTree(cmd.OutOrStdout(), tree); err != nil {
			return failure("%w", err)
		}
	}
	if parseErr != nil || bag.HasErrors() {
		return &exitError{code: exitProblem}
	}
	return nil
}
