package main

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("h3cheats", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "HEROES3.EXE", cfg.Target)
	assert.Equal(t, "", cfg.Script)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 0, cfg.PointerSize)
	assert.Equal(t, 0, cfg.Verbosity())
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("H3CHEATS_TARGET", "h3hota.exe")
	t.Setenv("H3CHEATS_SCRIPT", "/tmp/hota.lua")
	t.Setenv("H3CHEATS_POLL_INTERVAL", "250ms")
	t.Setenv("H3CHEATS_POINTER_SIZE", "4")
	t.Setenv("H3CHEATS_DEBUG", "true")

	cfg, err := ParseConfig(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "h3hota.exe", cfg.Target)
	assert.Equal(t, "/tmp/hota.lua", cfg.Script)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 4, cfg.PointerSize)
	assert.Equal(t, 1, cfg.Verbosity())
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("H3CHEATS_TARGET", "h3hota.exe")
	t.Setenv("H3CHEATS_POLL_INTERVAL", "250ms")

	cfg, err := ParseConfig(newFlagSet(), []string{"-interval", "1s", "-v", "-debug", "1234"})
	require.NoError(t, err)
	assert.Equal(t, "1234", cfg.Target)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 2, cfg.Verbosity())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig(newFlagSet(), []string{"a.exe", "b.exe"})
	assert.Error(t, err)

	_, err = ParseConfig(newFlagSet(), []string{"-ptrsize", "3"})
	assert.Error(t, err)

	_, err = ParseConfig(newFlagSet(), []string{"-interval", "0s"})
	assert.Error(t, err)

	_, err = ParseConfig(newFlagSet(), []string{"-nope"})
	assert.Error(t, err)
}

func TestParseConfigQuiet(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"-q", "-ps"})
	require.NoError(t, err)
	assert.True(t, cfg.ListProcesses)
	assert.Equal(t, -1, cfg.Verbosity())
}
