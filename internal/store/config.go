package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// Format is the default CLI output format (json, yaml, table).
	Format string `json:"format,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is auto, light or dark.
	Theme string `json:"theme,omitempty"`
}

var ConfigKeys = []string{"currentWorkspace", "format", "tui.theme"}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.thingsdo).
	if v := strings.TrimSpace(os.Getenv("THINGSDO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".thingsdo"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the global config. The file may contain comments and
// trailing commas. A missing file yields an empty config.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	// Keep the previous config around; failures here never block the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomic.WriteFile(path+".bak", bytes.NewReader(prev))
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// Get returns the string value of a dotted config key.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case "currentWorkspace":
		return c.CurrentWorkspace, nil
	case "format":
		return c.Format, nil
	case "tui.theme":
		if c.TUI == nil {
			return "", nil
		}
		return c.TUI.Theme, nil
	default:
		return "", fmt.Errorf("unknown config key %q (want one of: %s)", key, strings.Join(ConfigKeys, ", "))
	}
}

// Set assigns a dotted config key. An empty value unsets it.
func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "currentWorkspace":
		if value != "" {
			v, err := NormalizeWorkspaceName(value)
			if err != nil {
				return err
			}
			value = v
		}
		c.CurrentWorkspace = value
	case "format":
		switch value {
		case "", "json", "yaml", "table":
		default:
			return fmt.Errorf("invalid format %q (want json|yaml|table)", value)
		}
		c.Format = value
	case "tui.theme":
		switch value {
		case "", "auto", "light", "dark":
		default:
			return fmt.Errorf("invalid theme %q (want auto|light|dark)", value)
		}
		if c.TUI == nil {
			c.TUI = &TUIConfig{}
		}
		c.TUI.Theme = value
	default:
		return fmt.Errorf("unknown config key %q (want one of: %s)", key, strings.Join(ConfigKeys, ", "))
	}
	return nil
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid workspace name %q", name)
	}
	return name, nil
}

// ListWorkspaces returns the names of workspace dirs under the config dir.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
