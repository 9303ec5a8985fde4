package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_ListsLeafCommands(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"commands"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	output := restore()
	require.NoError(t, err)

	assert.Contains(t, output, "render")
	assert.Contains(t, output, "parse")
	assert.Contains(t, output, "roundtrip")
}

func TestCommands_JSONIncludesFlags(t *testing.T) {
	rootCmd := newRootCmd()
	rootCmd.SetArgs([]string{"--output", "json", "commands"})

	restore := captureStdout(t)
	err := rootCmd.Execute()
	output := restore()
	require.NoError(t, err)

	var entries []CommandEntry
	require.NoError(t, json.Unmarshal([]byte(output), &entries))

	byPath := make(map[string]CommandEntry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}
	render, ok := byPath["render"]
	require.True(t, ok)
	assert.Equal(t, "<state-file>", render.Args)

	var flagNames []string
	for _, f := range render.Flags {
		flagNames = append(flagNames, f.Name)
	}
	assert.Contains(t, flagNames, "dialect")
	assert.Contains(t, flagNames, "catalog")
}
