// Package env provides an immutable snapshot of the process environment.
//
// Both resolvers read CI metadata exclusively through an Env value, so tests
// can inject arbitrary provider environments without touching process state.
package env

import (
	"os"
	"strings"
)

// Env is a read-only view of environment variables.
type Env map[string]string

// System snapshots the current process environment.
func System() Env {
	environ := os.Environ()
	e := make(Env, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			e[kv[:i]] = kv[i+1:]
		}
	}
	return e
}

// Get returns the value for key, or "" when unset.
func (e Env) Get(key string) string {
	return e[key]
}

// Has reports whether key is set to a non-empty value.
func (e Env) Has(key string) bool {
	return e[key] != ""
}
