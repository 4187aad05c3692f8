// Package version carries build information for the yamlcheck CLI.
// The variables are overridden at build time via -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each component in its own color. Anything
// that is not MAJOR.MINOR.PATCH[-suffix] is returned as is.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := versionMajorColor.Sprint(parts[0]) + "." + versionMinorColor.Sprint(parts[1]) + "." + versionPatchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Commit returns GitCommit, or the VCS revision embedded by the go tool.
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}

// Line is the one-line description printed by `yamlcheck version`.
func Line(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	out := "yamlcheck " + v
	if c := Commit(); c != "" {
		if len(c) > 12 {
			c = c[:12]
		}
		out += fmt.Sprintf(" (%s)", c)
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
