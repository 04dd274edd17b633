package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseScripts(t *testing.T) {
	input := `{
		"name": "example",
		"version": "1.0.0",
		"scripts": {
			"storybook": "start-storybook -p 9009",
			"build": "webpack",
			"build-storybook": "build-storybook -o dist"
		},
		"dependencies": {"react": "^18.0.0"}
	}`

	scripts, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	if scripts.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", scripts.Len())
	}

	cmd, ok := scripts.Get("storybook")
	if !ok || cmd != "start-storybook -p 9009" {
		t.Errorf("Get(storybook) = %q, %v, want %q, true", cmd, ok, "start-storybook -p 9009")
	}

	if _, ok := scripts.Get("missing"); ok {
		t.Error("Get(missing) = true, want false")
	}

	want := []string{"storybook", "build", "build-storybook"}
	got := scripts.Names()
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], name)
		}
	}
}

func TestFindByCommandPrefixUsesManifestOrder(t *testing.T) {
	input := `{
		"scripts": {
			"lint": "eslint .",
			"sb:build": "build-storybook -o out",
			"sb:build-ci": "build-storybook --quiet"
		}
	}`

	scripts, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}

	name, ok := scripts.FindByCommandPrefix("build-storybook")
	if !ok {
		t.Fatal("FindByCommandPrefix(build-storybook) not found")
	}
	if name != "sb:build" {
		t.Errorf("FindByCommandPrefix(build-storybook) = %q, want %q (first in manifest order)", name, "sb:build")
	}

	if _, ok := scripts.FindByCommandPrefix("vite"); ok {
		t.Error("FindByCommandPrefix(vite) found a script, want none")
	}
}

func TestParseWithoutScripts(t *testing.T) {
	scripts, err := Parse(strings.NewReader(`{"name": "bare"}`))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	if scripts.Len() != 0 {
		t.Errorf("Len() = %d, want 0", scripts.Len())
	}
}

func TestParseRejectsMalformedScripts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"scripts not object", `{"scripts": ["a", "b"]}`},
		{"command not string", `{"scripts": {"build": 42}}`},
		{"not json", `scripts=build`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Parse(%q) returned nil error, want failure", tt.input)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	scripts, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() on empty dir returned error: %v", err)
	}
	if scripts.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for missing manifest", scripts.Len())
	}
}

func TestLoadReadsPackageJSON(t *testing.T) {
	dir := t.TempDir()
	content := `{"scripts": {"storybook": "storybook dev -p 6006"}}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	scripts, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	cmd, ok := scripts.Get("storybook")
	if !ok || cmd != "storybook dev -p 6006" {
		t.Errorf("Get(storybook) = %q, %v, want command from file", cmd, ok)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load() on malformed manifest returned nil error, want failure")
	}
}
