package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/pillars/internal/status"
)

// buildBinary compiles the CLI into a temp dir.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end workflow in short mode")
	}
	bin := filepath.Join(t.TempDir(), "pillars")
	out, err := exec.Command("go", "build", "-o", bin, ".").CombinedOutput()
	require.NoError(t, err, string(out))
	return bin
}

func isolatedEnv(home string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "PILLARS_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		"HOME="+home,
		"PILLARS_CONFIG="+filepath.Join(home, "pillars", "pillars.db"),
		"PILLARS_USER=e2e",
		"PILLARS_TIMEZONE=UTC",
	)
}

func TestEndToEndWorkflow(t *testing.T) {
	bin := buildBinary(t)
	env := isolatedEnv(t.TempDir())

	run := func(args ...string) string {
		t.Helper()
		cmd := exec.Command(bin, args...)
		cmd.Env = env
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		require.NoError(t, cmd.Run(), "pillars %s: %s", strings.Join(args, " "), stderr.String())
		return stdout.String()
	}

	run("init")
	run("activity", "add", "Run", "--pillar", "body", "--points", "60")
	run("activity", "add", "Journal", "--pillar", "mind", "--points", "20")
	assert.Contains(t, run("activity", "list"), "Journal")

	run("log", "Run")
	run("log", "journal", "--note", "morning pages")

	var snap status.Snapshot
	require.NoError(t, json.Unmarshal([]byte(run("status", "--json")), &snap))
	assert.Equal(t, "e2e", snap.UserID)
	assert.True(t, snap.IsToday)
	assert.Equal(t, 60, snap.Score.BodyPoints)
	assert.Equal(t, 20, snap.Score.MindPoints)
	assert.Len(t, snap.Completions, 2)

	run("backup", "create")
	assert.Contains(t, run("backup", "list"), "pillars-")
}

func TestLoadBeforeInitFails(t *testing.T) {
	bin := buildBinary(t)
	cmd := exec.Command(bin, "status")
	cmd.Env = isolatedEnv(t.TempDir())
	out, err := cmd.CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(out), "pillars init")
}
