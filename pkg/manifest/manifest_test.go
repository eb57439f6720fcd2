package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "demo"
version = "0.1.0"

[run]
entry = "scripts/hello.lua"
budget = 5000

[build]
output = "hello.luac"
`
	if err := os.WriteFile(filepath.Join(dir, "luago.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "demo" {
		t.Errorf("project name = %q, want demo", m.Project.Name)
	}
	if m.Run.Entry != "scripts/hello.lua" {
		t.Errorf("run entry = %q", m.Run.Entry)
	}
	if m.Run.Budget != 5000 {
		t.Errorf("run budget = %d, want 5000", m.Run.Budget)
	}
	if m.Build.Output != "hello.luac" {
		t.Errorf("build output = %q", m.Build.Output)
	}
	if m.EntryPath() != filepath.Join(m.Dir, "scripts/hello.lua") {
		t.Errorf("entry path = %q", m.EntryPath())
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "luago.toml"), []byte("[project]\nname = \"bare\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Run.Entry != "main.lua" {
		t.Errorf("default entry = %q, want main.lua", m.Run.Entry)
	}
	if m.Build.Output != "main.luac" {
		t.Errorf("default output = %q, want main.luac", m.Build.Output)
	}
	if m.Run.Budget != 0 {
		t.Errorf("default budget = %d, want 0 (unlimited)", m.Run.Budget)
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "luago.toml"), []byte("[project]\nname = \"root\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil || m.Project.Name != "root" {
		t.Fatalf("manifest not found from nested dir: %v", m)
	}
}

func TestFindAndLoadMissing(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil manifest, got %v", m)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "luago.toml"), []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}
