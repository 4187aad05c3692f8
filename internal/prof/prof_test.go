package prof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWritesEveryProfile(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	require.True(t, opts.Enabled())

	s, err := Start(opts)
	require.NoError(t, err)
	require.NoError(t, s.Stop())

	for _, path := range []string{opts.CPU, opts.Mem, opts.Trace} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	_, err := Start(Options{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	assert.Error(t, err)
	assert.False(t, Options{}.Enabled())
}
