package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestIssueThenInspect(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "MzItYnl0ZS1zZWNyZXQtZm9yLXRlc3Rpbmctb25seSEh")

	out, err := runCLI(t, "issue", "--client-id", "client-42", "--auth", "ROLE_ADMIN")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	assert.Len(t, strings.Split(token, "."), 3)

	out, err = runCLI(t, "inspect", token)
	require.NoError(t, err)
	assert.Contains(t, out, "status: valid")
	assert.Contains(t, out, `"clientId": "client-42"`)
	assert.Contains(t, out, `"auth": "ROLE_ADMIN"`)

	out, err = runCLI(t, "inspect", token+"x")
	assert.Error(t, err)
	assert.Contains(t, out, "status: malformed")
}

func TestIssue_RejectsUnknownCategory(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "MzItYnl0ZS1zZWNyZXQtZm9yLXRlc3Rpbmctb25seSEh")

	_, err := runCLI(t, "issue", "--client-id", "client-42", "--category", "forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
	issueFlags.category = "access"
}

func TestCheckHeader(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "MzItYnl0ZS1zZWNyZXQtZm9yLXRlc3Rpbmctb25seSEh")

	out, err := runCLI(t, "issue", "--client-id", "client-42", "--auth", "ROLE_USER")
	require.NoError(t, err)
	token := strings.TrimSpace(out)

	out, err = runCLI(t, "check", "Bearer "+token)
	require.NoError(t, err)
	assert.Contains(t, out, "client_id: client-42")
	assert.Contains(t, out, "valid: true")
	assert.Contains(t, out, "authorities: ROLE_USER")

	out, err = runCLI(t, "check", "bearer "+token)
	assert.Error(t, err)
	assert.Contains(t, out, "client_id: <none>")
}
