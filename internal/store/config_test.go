package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("THINGSDO_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, &GlobalConfig{}, cfg)
}

func TestLoadConfig_AcceptsJSONC(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("THINGSDO_CONFIG_DIR", dir)

	src := `{
  // personal workspace
  "currentWorkspace": "home",
  "tui": {"theme": "dark",},
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(src), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "home", cfg.CurrentWorkspace)
	require.Equal(t, "dark", cfg.TUI.Theme)
}

func TestSaveConfig_KeepsBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("THINGSDO_CONFIG_DIR", dir)

	require.NoError(t, SaveConfig(&GlobalConfig{CurrentWorkspace: "one"}))
	require.NoError(t, SaveConfig(&GlobalConfig{CurrentWorkspace: "two"}))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "two", cfg.CurrentWorkspace)

	bak, err := os.ReadFile(filepath.Join(dir, "config.json.bak"))
	require.NoError(t, err)
	require.Contains(t, string(bak), `"one"`)
}

func TestGlobalConfig_SetGet(t *testing.T) {
	t.Parallel()

	var cfg GlobalConfig
	require.NoError(t, cfg.Set("tui.theme", "light"))
	require.NoError(t, cfg.Set("format", "yaml"))
	require.NoError(t, cfg.Set("currentWorkspace", " work "))

	v, err := cfg.Get("tui.theme")
	require.NoError(t, err)
	require.Equal(t, "light", v)
	require.Equal(t, "work", cfg.CurrentWorkspace)

	require.Error(t, cfg.Set("format", "edn"))
	require.Error(t, cfg.Set("currentWorkspace", "../x"))
	require.Error(t, cfg.Set("nope", "x"))
	_, err = cfg.Get("nope")
	require.Error(t, err)
}

func TestWorkspaceDir_UnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("THINGSDO_CONFIG_DIR", dir)

	got, err := WorkspaceDir("default")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "workspaces", "default"), got)

	require.NoError(t, os.MkdirAll(got, 0o755))
	names, err := ListWorkspaces()
	require.NoError(t, err)
	require.Equal(t, []string{"default"}, names)
}
