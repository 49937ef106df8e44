package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "config.yaml", opts.configPath)
	assert.Equal(t, modeWindow, opts.mode)
	assert.Equal(t, 36, opts.frames)
	assert.Empty(t, opts.mazePath)
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{
		"-mode", "snapshot", "-frames", "8", "-out", "shots", "-maze", "m.txt", "-log-level", "debug",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, modeSnapshot, opts.mode)
	assert.Equal(t, 8, opts.frames)
	assert.Equal(t, "shots", opts.outDir)
	assert.Equal(t, "m.txt", opts.mazePath)
	assert.Equal(t, "debug", opts.logLevel)
}

func TestParseFlags_Rejects(t *testing.T) {
	_, err := parseFlags([]string{"-mode", "vr"}, io.Discard)
	assert.ErrorIs(t, err, errBadMode)

	_, err = parseFlags([]string{"-mode", "snapshot", "-frames", "0"}, io.Discard)
	assert.Error(t, err)

	_, err = parseFlags([]string{"-nope"}, io.Discard)
	assert.Error(t, err)
}
