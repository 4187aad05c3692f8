package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yamlcheck/internal/prof"
)

// startProfiling reads the profiling flags and starts a session. The cleanup
// writes the heap profile and closes the files.
func startProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("memprofile"); err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
