package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	oldStdout := os.Stdout
	defer func() { os.Stdout = oldStdout }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	versionCmd.Run(versionCmd, []string{})

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if !strings.Contains(output, "argus version") {
		t.Errorf("Expected output to contain 'argus version', got: %s", output)
	}
	if !strings.Contains(output, Version) {
		t.Errorf("Expected output to contain version %s, got: %s", Version, output)
	}
}

func TestFullVersionString(t *testing.T) {
	origCommit, origBranch := Commit, Branch
	defer func() { Commit, Branch = origCommit, origBranch }()

	Commit = "280fbcf9a2531c3b44f99d17e4bd23ee65498f04"
	Branch = "main"
	got := FullVersionString()
	if !strings.Contains(got, "main@280fbcf9a253") {
		t.Errorf("FullVersionString() = %q, want branch@shortcommit form", got)
	}
	if !strings.HasPrefix(got, "argus version "+Version) {
		t.Errorf("FullVersionString() = %q, want prefix %q", got, "argus version "+Version)
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		hash string
		want string
	}{
		{"", ""},
		{"abc123", "abc123"},
		{"280fbcf9a2531c3b44f99d17e4bd23ee65498f04", "280fbcf9a253"},
	}
	for _, tt := range tests {
		if got := shortCommit(tt.hash); got != tt.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tt.hash, got, tt.want)
		}
	}
}
