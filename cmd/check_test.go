package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txtsync/internal/formatting"
)

const validConfig = `
- destination: /srv/www/ads.txt
  updateInterval: 6h
  sources:
    - https://a.example/ads.txt
    - source: https://b.example/ads.txt
      transform:
        strip_variables: [contact]
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "txtsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func executeCheck(args ...string) (stdout, stderr string, err error) {
	cmd := newCheckCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheck_Table(t *testing.T) {
	path := writeTestConfig(t, validConfig)

	out, _, err := executeCheck("--no-color", path)
	require.NoError(t, err)
	assert.Contains(t, out, "DESTINATION")
	assert.Contains(t, out, "/srv/www/ads.txt")
	assert.Contains(t, out, "6h0m0s (6 hours)")
	assert.Contains(t, out, "https://b.example/ads.txt (strip: contact)")
}

func TestCheck_JSON(t *testing.T) {
	path := writeTestConfig(t, validConfig)

	out, _, err := executeCheck("-o", "json", path)
	require.NoError(t, err)

	var views []formatting.DestinationView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, path, views[0].Config)
	assert.Len(t, views[0].Sources, 2)
}

func TestCheck_InvalidConfig(t *testing.T) {
	good := writeTestConfig(t, validConfig)
	bad := writeTestConfig(t, "sources: []\n")

	out, errOut, err := executeCheck("--no-color", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitCodeError, getExitCode(err))
	assert.Contains(t, err.Error(), "1 of 2 configuration files are invalid")
	assert.Contains(t, errOut, "Configuration Error in "+bad)
	assert.Contains(t, out, "/srv/www/ads.txt")
}

func TestCheck_UnknownOutputFormat(t *testing.T) {
	path := writeTestConfig(t, validConfig)

	_, _, err := executeCheck("-o", "xml", path)
	require.Error(t, err)
	assert.Equal(t, ExitCodeUsage, getExitCode(err))
}

func TestCheck_RequiresConfig(t *testing.T) {
	_, _, err := executeCheck()
	require.Error(t, err)
	assert.Equal(t, ExitCodeUsage, getExitCode(err))
}
