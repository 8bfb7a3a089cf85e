package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run выполняет команду так, как будто это отдельный запуск процесса
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--storage", "sqlite", "--db", db}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

var idPattern = regexp.MustCompile(`Added (\S+)`)

func TestCLI_Workflow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "todo.db")

	_, err := run(t, db, "list")
	assert.ErrorIs(t, err, errNotSignedIn)

	out, err := run(t, db, "signin", "--email", "jane@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Hello, jane\n", out)

	out, err = run(t, db, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "jane <jane@example.com>")

	out, err = run(t, db, "list")
	require.NoError(t, err)
	assert.Equal(t, "No todos yet\n", out)

	out, err = run(t, db, "add", "Buy", "milk", "--priority", "low")
	require.NoError(t, err)
	milkID := idPattern.FindStringSubmatch(out)[1]

	out, err = run(t, db, "add", "Pay rent", "-p", "high")
	require.NoError(t, err)
	rentID := idPattern.FindStringSubmatch(out)[1]

	_, err = run(t, db, "toggle", rentID)
	require.NoError(t, err)

	out, err = run(t, db, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Buy milk")
	assert.True(t, strings.HasPrefix(lines[1], "[x]"))
	assert.Contains(t, lines[1], "Pay rent")
	assert.Equal(t, "1 of 2 completed (50%)", lines[2])

	out, err = run(t, db, "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")
	assert.NotContains(t, out, "Buy milk")

	out, err = run(t, db, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Today:      1")
	assert.Contains(t, out, "Total:      1")

	_, err = run(t, db, "rm", milkID)
	require.NoError(t, err)
	_, err = run(t, db, "rm", milkID)
	require.NoError(t, err, "deleting twice is a no-op")

	out, err = run(t, db, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Buy milk")

	_, err = run(t, db, "signout")
	require.NoError(t, err)
	_, err = run(t, db, "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestCLI_AddValidation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "todo.db")
	_, err := run(t, db, "signin", "--email", "jane@example.com", "--password", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "blank text", args: []string{"add", "   "}, wantErr: "task text is required"},
		{name: "too long", args: []string{"add", strings.Repeat("x", 201)}, wantErr: "at most 200 characters"},
		{name: "bad priority", args: []string{"add", "Task", "-p", "urgent"}, wantErr: "priority must be low, medium or high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, db, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	out, err := run(t, db, "list")
	require.NoError(t, err)
	assert.Equal(t, "No todos yet\n", out)
}

func TestCLI_SignInRejected(t *testing.T) {
	db := filepath.Join(t.TempDir(), "todo.db")

	_, err := run(t, db, "signin", "--email", "jane@example.com", "--password", "123")
	assert.Error(t, err)

	_, err = run(t, db, "whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
}
