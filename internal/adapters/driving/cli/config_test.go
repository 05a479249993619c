package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	commands := configCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "path")
}

func TestConfigSetAndGet(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "api.base_url", "https://api.example.com"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "https://api.example.com", svcs.config.GetString("api.base_url"))

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "get", "api.base_url"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "https://api.example.com")
}

func TestConfigSet_TypedValues(t *testing.T) {
	svcs, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetArgs([]string{"config", "set", "api.timeout_seconds", "30"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 30, svcs.config.GetInt("api.timeout_seconds"))

	rootCmd.SetArgs([]string{"config", "set", "output.json", "true"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, svcs.config.GetBool("output.json"))
}

func TestConfigGet_MissingKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "get", "nope"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "key not set: nope")
}

func TestConfigPath(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "path"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "config.toml")
}
