// Package manifest handles luago.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a luago.toml project configuration.
type Manifest struct {
	Project Project     `toml:"project"`
	Run     RunConfig   `toml:"run"`
	Build   BuildConfig `toml:"build"`

	// Dir is the directory containing the luago.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// RunConfig configures script execution.
type RunConfig struct {
	Entry string `toml:"entry"`
	// Budget caps the number of instructions a run may execute; 0 means
	// unlimited. This is host policy, enforced between steps, not a VM
	// feature.
	Budget int `toml:"budget"`
}

// BuildConfig configures chunk output.
type BuildConfig struct {
	Output string `toml:"output"`
}

// Load parses a luago.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "luago.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Run.Entry == "" {
		m.Run.Entry = "main.lua"
	}
	if m.Build.Output == "" {
		m.Build.Output = "main.luac"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a luago.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "luago.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the entry script.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Dir, m.Run.Entry)
}

// OutputPath returns the absolute path of the compiled chunk output.
func (m *Manifest) OutputPath() string {
	return filepath.Join(m.Dir, m.Build.Output)
}
