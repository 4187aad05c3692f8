package version

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func override(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestLine(t *testing.T) {
	override(t, "1.2.3", "abc123def4567890", "2024-01-15")
	assert.Equal(t, "yamlcheck 1.2.3 (abc123def456) built 2024-01-15", Line(false))
}

func TestColoredKeepsText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	override(t, "0.1.0-dev", "", "")
	assert.Equal(t, "0.1.0-dev", Colored())

	override(t, "nightly", "", "")
	assert.Equal(t, "nightly", Colored())
}

func TestCommitPrefersLdflags(t *testing.T) {
	override(t, "1.0.0", "feedface", "")
	assert.Equal(t, "feedface", Commit())
}
