// Package manifest reads the script table from a project's package.json.
//
// Script order matters: when a conventional build script is missing, the
// resolver falls back to the first script whose command starts with the
// conventional invocation, so parsing preserves the manifest's own ordering
// instead of relying on map iteration.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest file looked up in the project directory.
const FileName = "package.json"

// Scripts is an ordered script table: name → command-line text.
type Scripts struct {
	names    []string
	commands map[string]string
}

// Len returns the number of scripts.
func (s *Scripts) Len() int {
	return len(s.names)
}

// Names returns the script names in manifest order.
func (s *Scripts) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns the command for a script name.
func (s *Scripts) Get(name string) (string, bool) {
	cmd, ok := s.commands[name]
	return cmd, ok
}

// FindByCommandPrefix returns the first script, in manifest order, whose
// command starts with prefix.
func (s *Scripts) FindByCommandPrefix(prefix string) (string, bool) {
	for _, name := range s.names {
		if strings.HasPrefix(s.commands[name], prefix) {
			return name, true
		}
	}
	return "", false
}

// Load reads the manifest from dir. A missing file yields an empty table;
// resolution only fails later if a script is actually needed.
func Load(dir string) (*Scripts, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Scripts{commands: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scripts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return scripts, nil
}

// Parse decodes the "scripts" object from manifest JSON, preserving key
// order. Other manifest fields are skipped.
func Parse(r io.Reader) (*Scripts, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	scripts := &Scripts{commands: make(map[string]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "scripts" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			continue
		}
		if err := parseScriptTable(dec, scripts); err != nil {
			return nil, err
		}
	}
	return scripts, nil
}

func parseScriptTable(dec *json.Decoder, s *Scripts) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf(`"scripts" must be an object, got %v`, tok)
	}
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := nameTok.(string)
		var command string
		if err := dec.Decode(&command); err != nil {
			return fmt.Errorf("script %q: %w", name, err)
		}
		if _, dup := s.commands[name]; !dup {
			s.names = append(s.names, name)
		}
		s.commands[name] = command
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
