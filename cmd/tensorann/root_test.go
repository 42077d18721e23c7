package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.0.0")
	require.NotNil(t, cmd)

	assert.Equal(t, "tensorann", cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)
}

func TestRootCmdHasFlags(t *testing.T) {
	cmd := NewRootCmd("dev")

	for _, name := range []string{"config", "store", "root", "log-level", "json"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q", name)
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd("dev")

	for _, name := range []string{"generate", "query", "baseline"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}
