package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with a vvm.toml
	dir := t.TempDir()
	tomlContent := `
[project]
name = "ticker"
version = "0.1.0"

[source]
dirs = ["src", "vendor"]
entry = "src/main.vvm"

[output]
path = "ticker.vvmc"
dump = true
`
	if err := os.WriteFile(filepath.Join(dir, "vvm.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "ticker" {
		t.Errorf("project name = %q, want ticker", m.Project.Name)
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("project version = %q, want 0.1.0", m.Project.Version)
	}
	if len(m.Source.Dirs) != 2 {
		t.Errorf("source dirs count = %d, want 2", len(m.Source.Dirs))
	}
	if m.Source.Entry != "src/main.vvm" {
		t.Errorf("source entry = %q, want src/main.vvm", m.Source.Entry)
	}
	if m.Output.Path != "ticker.vvmc" {
		t.Errorf("output path = %q, want ticker.vvmc", m.Output.Path)
	}
	if !m.Output.Dump {
		t.Error("output dump = false, want true")
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "minimal"
`
	if err := os.WriteFile(filepath.Join(dir, "vvm.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Default source dir should be "src"
	if len(m.Source.Dirs) != 1 || m.Source.Dirs[0] != "src" {
		t.Errorf("default source dirs = %v, want [src]", m.Source.Dirs)
	}
}

func TestLoadManifestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "env-test"

[output]
path = "from-toml.vvmc"
`
	if err := os.WriteFile(filepath.Join(dir, "vvm.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VVMASM_OUTPUT", "from-env.vvmc")
	t.Setenv("VVMASM_DUMP", "1")

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Output.Path != "from-env.vvmc" {
		t.Errorf("output path = %q, want from-env.vvmc", m.Output.Path)
	}
	if !m.Output.Dump {
		t.Error("output dump = false, want true from VVMASM_DUMP")
	}
}

func TestFindAndLoad(t *testing.T) {
	// Create nested directory structure
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	tomlContent := `[project]
name = "found-project"
`
	if err := os.WriteFile(filepath.Join(dir, "vvm.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	// Should find manifest when starting from a deep subdirectory
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Project.Name != "found-project" {
		t.Errorf("project name = %q, want found-project", m.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no vvm.toml exists")
	}
}

func TestSourceDirPaths(t *testing.T) {
	m := &Manifest{
		Dir: "/app",
		Source: Source{
			Dirs: []string{"src", "vendor"},
		},
	}

	paths := m.SourceDirPaths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	if paths[0] != "/app/src" {
		t.Errorf("paths[0] = %q, want /app/src", paths[0])
	}
	if paths[1] != "/app/vendor" {
		t.Errorf("paths[1] = %q, want /app/vendor", paths[1])
	}
}

func TestOutputPath(t *testing.T) {
	m := &Manifest{
		Dir:    "/app",
		Source: Source{Entry: "src/main.vvm"},
	}
	if got := m.OutputPath(); got != "/app/src/main.vvmc" {
		t.Errorf("OutputPath = %q, want /app/src/main.vvmc", got)
	}

	m.Output.Path = "out/prog.vvmc"
	if got := m.OutputPath(); got != "/app/out/prog.vvmc" {
		t.Errorf("OutputPath = %q, want /app/out/prog.vvmc", got)
	}
}
