package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the CLI with args against an isolated cache dir and returns
// stdout and stderr.
func execute(t *testing.T, dir string, args ...string) (string, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(home); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })
	for _, key := range []string{"RESULTCACHE_CONFIG", "RESULTCACHE_ENABLED", "RESULTCACHE_DIR", "RESULTCACHE_MAX_MB", "RESULTCACHE_TTL_DAYS", "RESULTCACHE_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute(%v) error: %v", args, err)
	}
	return stdout.String(), stderr.String()
}

func TestKeyCommand_Deterministic(t *testing.T) {
	dir := t.TempDir()
	out1, _ := execute(t, dir, "key", "--path", "b.go", "--path", "a.go", "--query", "Find Bugs", "--op", "review")
	out2, _ := execute(t, dir, "key", "--path", "a.go", "--path", "b.go", "--query", "find bugs", "--op", "review")

	key := strings.TrimSpace(out1)
	if len(key) != 64 {
		t.Fatalf("key length = %d, want 64", len(key))
	}
	if out1 != out2 {
		t.Errorf("keys differ across path order and query case:\n%s%s", out1, out2)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out, _ := execute(t, dir, "key", "--path", "main.go", "--query", "q", "--op", "lint")
	key := strings.TrimSpace(out)

	_, stderr := execute(t, dir, "set", key, "--payload", `{"verdict":"PASS"}`)
	if !strings.Contains(stderr, "status: stored") {
		t.Fatalf("set stderr = %q, want stored", stderr)
	}

	stdout, stderr := execute(t, dir, "get", key)
	if !strings.Contains(stderr, "status: hit") {
		t.Fatalf("get stderr = %q, want hit", stderr)
	}
	if stdout != `{"verdict":"PASS"}` {
		t.Errorf("get stdout = %q", stdout)
	}
}

func TestGetMissExitsZero(t *testing.T) {
	dir := t.TempDir()
	key := strings.Repeat("ab", 32)

	stdout, stderr := execute(t, dir, "get", key)
	if !strings.Contains(stderr, "status: miss") {
		t.Errorf("stderr = %q, want miss", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty on miss", stdout)
	}
}

func TestSetRejectedPayload(t *testing.T) {
	dir := t.TempDir()
	key := strings.Repeat("cd", 32)

	_, stderr := execute(t, dir, "set", key, "--payload", `{"api_key": "sk-12345"}`)
	if !strings.Contains(stderr, "status: rejected") {
		t.Errorf("stderr = %q, want rejected for secret-bearing payload", stderr)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	dir := t.TempDir()
	key := strings.Repeat("ef", 32)

	execute(t, dir, "set", key, "--payload", `{"n":1}`)
	_, stderr := execute(t, dir, "delete", key)
	if !strings.Contains(stderr, "status: deleted") {
		t.Errorf("first delete stderr = %q, want deleted", stderr)
	}
	_, stderr = execute(t, dir, "delete", key)
	if !strings.Contains(stderr, "status: not_found") {
		t.Errorf("second delete stderr = %q, want not_found", stderr)
	}
}

func TestStatsCommand(t *testing.T) {
	dir := t.TempDir()
	key := strings.Repeat("01", 32)
	execute(t, dir, "set", key, "--payload", `{"n":1}`)
	execute(t, dir, "get", key)

	stdout, _ := execute(t, dir, "stats")
	if !strings.Contains(stdout, "entries:       1") {
		t.Errorf("stats output missing entry count:\n%s", stdout)
	}
	if !strings.Contains(stdout, "hits:          1") {
		t.Errorf("stats output missing hits:\n%s", stdout)
	}

	jsonOut, _ := execute(t, dir, "stats", "--json")
	if !strings.Contains(jsonOut, `"hit_rate"`) {
		t.Errorf("stats --json missing hit_rate:\n%s", jsonOut)
	}
}

func TestClearCommand(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "set", strings.Repeat("aa", 32), "--payload", `{"n":1}`)
	execute(t, dir, "set", strings.Repeat("bb", 32), "--payload", `{"n":2}`)

	stdout, _ := execute(t, dir, "clear")
	if !strings.Contains(stdout, "cleared 2 entries") {
		t.Errorf("clear output = %q", stdout)
	}
}

func TestInvalidateCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "lib.go")
	execute(t, dir, "set", strings.Repeat("cc", 32), "--payload", `{"n":1}`, "--source", src)

	stdout, _ := execute(t, dir, "invalidate", "*.go")
	if !strings.Contains(stdout, "invalidated 1 entries") {
		t.Errorf("invalidate output = %q", stdout)
	}
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "set", strings.Repeat("dd", 32), "--payload", `{"n":1}`)

	stdout, _ := execute(t, dir, "status")
	if !strings.Contains(stdout, "storage") {
		t.Errorf("status output missing storage check:\n%s", stdout)
	}
	if !strings.Contains(stdout, "overall: healthy") {
		t.Errorf("status output = %q, want overall healthy", stdout)
	}
}
