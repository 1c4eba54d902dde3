package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/sgisync/internal/server/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagConfigPath, flagVerbose = "", false

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}

func TestTokenCmd(t *testing.T) {
	secret := "cmd-test-secret-0123456789"
	t.Setenv("SGISYNC_JWT_SECRET", secret)

	out, err := execute(t, "token", "--user", "alice", "--role", "admin")
	require.NoError(t, err)

	identity, err := auth.NewJWT(auth.JWTConfig{Secret: []byte(secret)}).VerifyCredential(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.UserID)
	assert.Equal(t, "admin", identity.Role)
}

func TestTokenCmd_RequiresSecret(t *testing.T) {
	t.Setenv("SGISYNC_JWT_SECRET", "")

	_, err := execute(t, "token", "--user", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = execute(t, "config", "init", path)
	require.Error(t, err)

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}
