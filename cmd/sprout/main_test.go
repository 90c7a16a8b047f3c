package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nexusagri/sprout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewLogger(t *testing.T) {
	for _, tc := range []struct {
		name        string
		debug, json bool
	}{
		{"console", false, false},
		{"debug", true, false},
		{"json", false, true},
		{"json debug", true, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l, err := newLogger(tc.debug, tc.json)
			require.NoError(t, err)
			assert.Equal(t, tc.debug, l.Core().Enabled(zap.DebugLevel))
		})
	}
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprout.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 5\nbranch_count = 9\n"), 0o644))

	cmd := newFramesCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--seed", "11", "--strategy", "snake"}))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, int32(11), cfg.Seed, "flag overrides file")
	assert.Equal(t, 9, cfg.BranchCount, "file overrides default")
	assert.Equal(t, sprout.StrategySnakeSegmented, cfg.Topology.Strategy)
	assert.False(t, cfg.ReducedMotion)
}

func TestLoadConfigBadStrategy(t *testing.T) {
	cmd := newFramesCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--strategy", "spiral"}))
	_, err := loadConfig(cmd)
	assert.True(t, errors.Is(err, sprout.ErrInvalidParameter))
}

func TestRenderFrames(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frames")
	cfg := sprout.DefaultConfig()
	cfg.BranchCount = 6

	paths, err := renderFrames(cfg, frameOptions{
		out: out, count: 4, interval: 500 * time.Millisecond, width: 64, height: 48,
	})
	require.NoError(t, err)
	require.Len(t, paths, 4)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.Equal(t, filepath.Join(out, "frame_0003.png"), paths[3])
}

func TestRenderFramesStopsWhenDone(t *testing.T) {
	cfg := sprout.DefaultConfig()
	cfg.BranchCount = 3
	paths, err := renderFrames(cfg, frameOptions{
		out: t.TempDir(), count: 100, interval: time.Second, width: 32, height: 32,
		readyAfter: time.Second,
	})
	require.NoError(t, err)
	// Ready at 1s, dismissed at the 2s minimum, done on the 3s frame.
	assert.Len(t, paths, 4)
}

func TestRenderFramesInvalid(t *testing.T) {
	_, err := renderFrames(sprout.DefaultConfig(), frameOptions{out: t.TempDir(), count: 0, interval: time.Second})
	assert.True(t, errors.Is(err, sprout.ErrInvalidParameter))
}

func TestFramesCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "f")
	_, err := executeCmd(t, "frames", "--out", out, "--count", "2", "--width", "32", "--height", "32")
	require.NoError(t, err)
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestScriptCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(script, []byte(`{"steps": [
		{"action": "advance", "ms": 1200},
		{"action": "screenshot", "label": "mid-growth"}
	]}`), 0o644))

	out, err := executeCmd(t, "script", "--out", filepath.Join(dir, "shots"), script)
	require.NoError(t, err)
	assert.Contains(t, out, "mid-growth.png")
}

func TestScriptCommandInvalid(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(script, []byte(`{"steps": []}`), 0o644))

	_, err := runScriptFile(sprout.DefaultConfig(), script, dir, 10)
	assert.True(t, errors.Is(err, sprout.ErrInvalidScript))
}
