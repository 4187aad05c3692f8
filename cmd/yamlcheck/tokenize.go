package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yamlcheck/internal/diag"
	"yamlcheck/internal/diagfmt"
	"yamlcheck/internal/driver"
	"yamlcheck/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.yaml",
		Short: "Print the token stream of a YAML file",
		Long:  `Tokenize runs the scanner alone and prints every token with its position and flags`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer cleanup()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return failure("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return failure("unknown format: %s", format)
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
	toks, bag, lexErr := driver.Tokenize(fs, id, maxDiagnostics)

	// Выводим диагностику в stderr, если есть
	if err := printDiagnostics(cmd, fs.Get(id), bag); err != nil {
		return failure("%w", err)
	}

	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks)
	default:
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks)
	}
	if err != nil {
		return failure("%w", err)
	}
	if lexErr != nil {
		return &exitError{code: exitProblem}
	}
	return nil
}

// printDiagnostics writes a non-empty bag to stderr in the pretty format.
func printDiagnostics(cmd *cobra.Command, file *source.File, bag *diag.Bag) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	report := diagfmt.FileReport{File: file, Diagnostics: bag.Items()}
	if file != nil {
		report.Path = file.Path
	}
	if err := diagfmt.Pretty(cmd.ErrOrStderr(), []diagfmt.FileReport{report}, diagfmt.PrettyOpts{Color: colored}); err != nil {
		return fmt.Errorf("failed to print diagnostics: %w", err)
	}
	return nil
}
