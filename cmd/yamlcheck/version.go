package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yamlcheck/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show yamlcheck build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return failure("failed to get format flag: %w", err)
			}
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{
					Tool:      "yamlcheck",
					Version:   version.Version,
					GitCommit: version.Commit(),
					BuildDate: version.BuildDate,
				})
			case "pretty":
				colored, err := useColor(cmd, os.Stdout)
				if err != nil {
					return failure("%w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), version.Line(colored))
				return nil
			default:
				return failure("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}
