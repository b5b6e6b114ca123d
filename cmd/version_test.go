package cmd_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/racetrack-labs/paddock/cmd"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	// Tests are built without vcs information, so only the @latest branch is covered here.

	t.Run("show version", func(t *testing.T) {
		t.Parallel()

		output, err := cmd.TestExecute(t, cmd.Version("paddock"))
		assert.NoError(t, err)
		assert.Contains(t, output, "paddock version: @latest from ")
		assert.Contains(t, output, runtime.Version())
	})

	t.Run("no program name", func(t *testing.T) {
		t.Parallel()

		output, err := cmd.TestExecute(t, cmd.Version("  "))
		assert.NoError(t, err)
		assert.Equal(t, "version:", output[:8], "should not start with leading space")

		output, err = cmd.TestExecute(t, cmd.Version(""), "-h")
		assert.NoError(t, err)
		assert.Contains(t, output, "Print version")
	})

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()

		output, err := cmd.TestExecute(t, cmd.Version(""), "sub-command")
		assert.Error(t, err)
		assert.Contains(t, output, "unknown command")
		assert.NotContains(t, output, "[flags]")
	})

	t.Run("from root", func(t *testing.T) {
		t.Parallel()

		output, err := cmd.TestExecute(t, cmd.NewRootCommand(), "version")
		assert.NoError(t, err)
		assert.Contains(t, output, "paddock version: ")
	})
}
