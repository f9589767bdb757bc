package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "flowgraph")
	assert.Contains(t, out.String(), "commit:")
}

func TestRunCommandRequiresArgument(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run"})

	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestModuleLoadRequiresArgument(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"module", "load"})

	err := rootCmd.Execute()
	assert.Error(t, err)
}
