package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txtsync/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelDebug, io.Discard)
	os.Exit(m.Run())
}

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "txtsync", rootCmd.Name())
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	for _, name := range []string{"http-timeout", "user-agent", "metrics-address"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"debug", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		rootLogFormat = string(logging.FormatText)
		rootDebug = false
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand_RequiresConfig(t *testing.T) {
	out, err := executeRoot(t)
	require.Error(t, err)
	assert.Equal(t, ExitCodeUsage, getExitCode(err))
	assert.Contains(t, err.Error(), "at least one configuration file is required")
	assert.Contains(t, err.Error(), "txtsync [flags] CONFIG...")
	assert.Contains(t, out, "at least one configuration file is required")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, err := executeRoot(t, "check", "--log-format", "xml", "missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCodeUsage, getExitCode(err))
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "txtsync version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())
	assert.Equal(t, "txtsync version 1.0.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}

	for _, expected := range []string{"version", "check"} {
		assert.True(t, found[expected], "subcommand %s should be registered", expected)
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeUsage, getExitCode(&usageError{msg: "bad"}))
	assert.Equal(t, ExitCodeError, getExitCode(errors.New("boom")))
}
