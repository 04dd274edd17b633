// Package runcontext assembles the resolved state of a publish run into one
// record that downstream tooling consumes as JSON or YAML.
package runcontext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/argus-ci/argus-cli/internal/identity"
	"github.com/argus-ci/argus-cli/internal/options"
)

// Context is the full resolved state of a run.
type Context struct {
	Version    string             `json:"version" yaml:"version"`
	ResolvedAt time.Time          `json:"resolvedAt" yaml:"resolvedAt"`
	Options    *options.Options   `json:"options" yaml:"options"`
	Identity   *identity.Identity `json:"identity" yaml:"identity"`
}

// New stamps a context with the CLI version and the current time.
func New(version string, opts *options.Options, id *identity.Identity) *Context {
	return &Context{
		Version:    version,
		ResolvedAt: time.Now().UTC(),
		Options:    opts,
		Identity:   id,
	}
}

// WriteJSON renders the context as indented JSON.
func (c *Context) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// WriteYAML renders the context as YAML.
func (c *Context) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes the context to path, picking the format from the
// extension: .yaml and .yml produce YAML, everything else JSON.
func (c *Context) WriteFile(path string) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = c.WriteYAML(&buf)
	default:
		err = c.WriteJSON(&buf)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
