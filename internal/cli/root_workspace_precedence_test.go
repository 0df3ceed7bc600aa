package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspacePrecedence(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("THINGSDO_CONFIG_DIR", cfgDir)
	t.Setenv("THINGSDO_DIR", "")
	t.Setenv("THINGSDO_WORKSPACE", "")
	t.Setenv("THINGSDO_FORMAT", "")

	if _, errOut, err := runCLI(t, []string{"config", "set", "currentWorkspace", "Home"}); err != nil {
		t.Fatalf("config set: %v\n%s", err, string(errOut))
	}
	if _, errOut, err := runCLI(t, []string{"tasks", "add", "From config"}); err != nil {
		t.Fatalf("add via config workspace: %v\n%s", err, string(errOut))
	}
	if _, err := os.Stat(filepath.Join(cfgDir, "workspaces", "Home", "thingsdo.sqlite")); err != nil {
		t.Fatalf("expected db in config workspace: %v", err)
	}

	// --workspace beats config; --dir beats both.
	if _, errOut, err := runCLI(t, []string{"--workspace", "Work", "tasks", "add", "From flag"}); err != nil {
		t.Fatalf("add via --workspace: %v\n%s", err, string(errOut))
	}
	dir := t.TempDir()
	t.Setenv("THINGSDO_WORKSPACE", "Work")
	if _, errOut, err := runCLI(t, []string{"--dir", dir, "tasks", "add", "From dir"}); err != nil {
		t.Fatalf("add via --dir: %v\n%s", err, string(errOut))
	}

	count := func(args ...string) int {
		t.Helper()
		out, errOut, err := runCLI(t, append(args, "view", "focusing"))
		if err != nil {
			t.Fatalf("view: %v\n%s", err, string(errOut))
		}
		var env struct {
			Data []any `json:"data"`
		}
		if err := json.Unmarshal(out, &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return len(env.Data)
	}
	if got := count("--workspace", "Home"); got != 1 {
		t.Fatalf("Home: got %d items, want 1", got)
	}
	if got := count("--workspace", "Work"); got != 1 {
		t.Fatalf("Work: got %d items, want 1", got)
	}
	if got := count("--dir", dir); got != 1 {
		t.Fatalf("dir: got %d items, want 1", got)
	}
}

func TestConfigSet_RejectsBadValues(t *testing.T) {
	testEnv(t)
	if _, _, err := runCLI(t, []string{"config", "set", "format", "xml"}); err == nil {
		t.Fatalf("expected invalid format to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "set", "nope", "x"}); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}
