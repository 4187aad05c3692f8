package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"yamlcheck/internal/version"
)

// Exit statuses.
const (
	exitOK      = 0
	exitProblem = 1
	exitFailure = 2
)

// exitError carries a process exit status out of a RunE.
// A nil err means the status is the whole message.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func failure(format string, args ...any) error {
	return &exitError{code: exitFailure, err: fmt.Errorf(format, args...)}
}

// newRootCmd builds a fresh command tree; tests run several in one process.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "yamlcheck",
		Short:         "Structural YAML linter",
		Long:          `yamlcheck scans and parses YAML files and checks their layout against a configurable rule set`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics kept per file (0 = unlimited)")
	rootCmd.PersistentFlags().String("trace", "", "write a trace to this file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
	return rootCmd
}

func main() {
	os.Exit(run(newRootCmd(), os.Args[1:]))
}

// run executes the command tree and maps its error to an exit status.
func run(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "yamlcheck: %v\n", ee.err)
		}
		return ee.code
	}
	// ошибки cobra: неизвестный флаг, лишние аргументы
	fmt.Fprintf(cmd.ErrOrStderr(), "yamlcheck: %v\n", err)
	return exitFailure
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag for the given stream.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
