// Package manifest handles vvm.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// Manifest represents a vvm.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Source  Source  `toml:"source"`
	Output  Output  `toml:"output"`

	// Dir is the directory containing the vvm.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures assembly source file locations.
type Source struct {
	Dirs  []string `toml:"dirs"`
	Entry string   `toml:"entry"`
}

// Output configures bytecode output.
type Output struct {
	Path string `toml:"path"`
	Dump bool   `toml:"dump"`
}

// Load parses a vvm.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "vvm.toml")
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

	m.applyDefaults()
	m.applyEnv()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a vvm.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "vvm.toml")
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

func (m *Manifest) applyDefaults() {
	if len(m.Source.Dirs) == 0 {
		m.Source.Dirs = []string{"src"}
	}
}

// applyEnv lets the environment override output settings, so a build can be
// redirected without editing the manifest.
func (m *Manifest) applyEnv() {
	m.Output.Path = env.Str("VVMASM_OUTPUT", m.Output.Path)
	m.Output.Dump = env.Bool("VVMASM_DUMP") || m.Output.Dump
}

// SourceDirPaths returns absolute paths for the configured source directories.
func (m *Manifest) SourceDirPaths() []string {
	var paths []string
	for _, d := range m.Source.Dirs {
		paths = append(paths, filepath.Join(m.Dir, d))
	}
	return paths
}

// EntryPath returns the absolute path of the configured entry file, or ""
// when no entry is set.
func (m *Manifest) EntryPath() string {
	if m.Source.Entry == "" {
		return ""
	}
	return filepath.Join(m.Dir, m.Source.Entry)
}

// OutputPath returns the absolute path of the configured output file. When
// the manifest does not set one, the entry file's name with a .vvmc extension
// is used.
func (m *Manifest) OutputPath() string {
	if m.Output.Path != "" {
		return filepath.Join(m.Dir, m.Output.Path)
	}
	entry := m.EntryPath()
	if entry == "" {
		return ""
	}
	ext := filepath.Ext(entry)
	return entry[:len(entry)-len(ext)] + ".vvmc"
}
