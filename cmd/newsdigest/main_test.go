package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Version(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), version)
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"빈집", "부동산"})

	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRootCmd_BadConfigFile(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"빈집", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd(&bytes.Buffer{})

	for _, name := range []string{"keyword", "no-dedup", "config"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
