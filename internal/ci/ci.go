// Package ci detects which CI provider the process is running under and
// normalizes the build metadata each provider exposes through its own
// environment variables.
//
// Detection walks a closed, ordered table of provider adapters; the first
// match wins. Adding a provider means adding a table entry, never touching
// the resolution logic that consumes Info.
package ci

import (
	"strings"

	"github.com/argus-ci/argus-cli/internal/env"
)

// Info is the provider-agnostic view of a CI run. Fields a provider does
// not expose stay empty.
type Info struct {
	Service  string `json:"service,omitempty" yaml:"service,omitempty"`
	IsCI     bool   `json:"isCi" yaml:"isCi"`
	Branch   string `json:"branch,omitempty" yaml:"branch,omitempty"`
	PrBranch string `json:"prBranch,omitempty" yaml:"prBranch,omitempty"`
	Commit   string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Slug     string `json:"slug,omitempty" yaml:"slug,omitempty"`
	IsPr     bool   `json:"isPr" yaml:"isPr"`
}

// Detect matches the environment against the known providers in table
// order. When none match, the generic CI / CI_NAME convention still flags
// the run as CI without any metadata.
func Detect(e env.Env) Info {
	for _, p := range providers {
		if p.detect(e) {
			info := p.info(e)
			info.Service = p.service
			info.IsCI = true
			return info
		}
	}
	return Info{IsCI: isTruthy(e.Get("CI")) || e.Has("CI_NAME")}
}

// Services lists the detectable provider names in evaluation order.
func Services() []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.service
	}
	return names
}

// isTruthy treats the conventional string "false" as unset; several
// providers export CI=false or PULL_REQUEST=false on non-matching runs.
func isTruthy(v string) bool {
	return v != "" && v != "false"
}

func stripRefPrefix(ref string) string {
	ref = strings.TrimPrefix(ref, "refs/heads/")
	ref = strings.TrimPrefix(ref, "refs/tags/")
	return ref
}

func joinSlug(owner, name string) string {
	if owner == "" || name == "" {
		return ""
	}
	return owner + "/" + name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
