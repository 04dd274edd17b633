// Package options resolves raw CLI flags, the environment, and the project
// manifest into one validated, internally consistent description of a
// publish run. Resolution is deterministic and performs no I/O beyond the
// supplied inputs.
package options

import "encoding/json"

// Flags is the flat flag structure handed over by the CLI layer.
// Optional-value flags use *string: nil means absent, "" means the flag was
// given bare, anything else is its argument.
type Flags struct {
	ProjectToken []string
	AppCode      []string // deprecated alias for ProjectToken

	Only        string
	OnlyChanged *string
	Untraced    []string
	Externals   []string

	List        bool
	DryRun      bool
	Debug       bool
	CI          bool
	Interactive bool

	Skip                    *string
	AutoAcceptChanges       *string
	ExitZeroOnChanges       *string
	ExitOnceUploaded        *string
	IgnoreLastBuildOnBranch string
	PreserveMissing         bool
	AllowConsoleErrors      bool
	JunitReport             *string

	BuildScriptName   *string
	ScriptName        *string
	Exec              string
	DoNotStart        bool
	StorybookPort     string
	StorybookURL      string
	StorybookBuildDir []string
	StorybookHTTPS    bool
	StorybookCert     string
	StorybookKey      string
	StorybookCA       string

	PatchBuild string
	BranchName string
}

// Options is the resolved record. It is immutable after Resolve returns.
type Options struct {
	ProjectToken string `json:"projectToken" yaml:"projectToken"`
	DryRun       bool   `json:"dryRun" yaml:"dryRun"`
	Verbose      bool   `json:"verbose" yaml:"verbose"`
	Interactive  bool   `json:"interactive" yaml:"interactive"`
	CI           bool   `json:"ci" yaml:"ci"`
	List         bool   `json:"list,omitempty" yaml:"list,omitempty"`

	Only        string     `json:"only,omitempty" yaml:"only,omitempty"`
	OnlyChanged BoolOrGlob `json:"onlyChanged" yaml:"onlyChanged"`
	Untraced    []string   `json:"untraced,omitempty" yaml:"untraced,omitempty"`
	Externals   []string   `json:"externals,omitempty" yaml:"externals,omitempty"`

	Skip                    BoolOrGlob `json:"skip" yaml:"skip"`
	AutoAcceptChanges       BoolOrGlob `json:"autoAcceptChanges" yaml:"autoAcceptChanges"`
	ExitZeroOnChanges       BoolOrGlob `json:"exitZeroOnChanges" yaml:"exitZeroOnChanges"`
	ExitOnceUploaded        BoolOrGlob `json:"exitOnceUploaded" yaml:"exitOnceUploaded"`
	IgnoreLastBuildOnBranch string     `json:"ignoreLastBuildOnBranch,omitempty" yaml:"ignoreLastBuildOnBranch,omitempty"`
	PreserveMissing         bool       `json:"preserveMissing,omitempty" yaml:"preserveMissing,omitempty"`
	AllowConsoleErrors      bool       `json:"allowConsoleErrors,omitempty" yaml:"allowConsoleErrors,omitempty"`
	JunitReport             BoolOrPath `json:"junitReport" yaml:"junitReport"`

	BuildScriptName   string `json:"buildScriptName,omitempty" yaml:"buildScriptName,omitempty"`
	ScriptName        string `json:"scriptName,omitempty" yaml:"scriptName,omitempty"`
	Exec              string `json:"exec,omitempty" yaml:"exec,omitempty"`
	NoStart           bool   `json:"noStart" yaml:"noStart"`
	UseTunnel         bool   `json:"useTunnel" yaml:"useTunnel"`
	HTTPS             *HTTPS `json:"https,omitempty" yaml:"https,omitempty"`
	Port              string `json:"port,omitempty" yaml:"port,omitempty"`
	StorybookURL      string `json:"storybookUrl,omitempty" yaml:"storybookUrl,omitempty"`
	StorybookBuildDir string `json:"storybookBuildDir,omitempty" yaml:"storybookBuildDir,omitempty"`
	URL               string `json:"url,omitempty" yaml:"url,omitempty"`

	BranchName   string `json:"branchName,omitempty" yaml:"branchName,omitempty"`
	OwnerName    string `json:"ownerName,omitempty" yaml:"ownerName,omitempty"`
	PatchHeadRef string `json:"patchHeadRef,omitempty" yaml:"patchHeadRef,omitempty"`
	PatchBaseRef string `json:"patchBaseRef,omitempty" yaml:"patchBaseRef,omitempty"`
}

// HTTPS carries dev-server TLS credential paths, never file contents.
type HTTPS struct {
	Cert string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
	CA   string `json:"ca,omitempty" yaml:"ca,omitempty"`
}

// BoolOrGlob models flags that accept either bare presence (enabled
// unconditionally) or a branch-name glob scoping the behavior to matching
// branches.
type BoolOrGlob struct {
	Enabled bool
	Glob    string
}

// Set reports whether the flag was given at all.
func (b BoolOrGlob) Set() bool {
	return b.Enabled || b.Glob != ""
}

// MarshalJSON renders true, the glob string, or null.
func (b BoolOrGlob) MarshalJSON() ([]byte, error) {
	switch {
	case b.Glob != "":
		return json.Marshal(b.Glob)
	case b.Enabled:
		return json.Marshal(true)
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML mirrors MarshalJSON for the yaml output path.
func (b BoolOrGlob) MarshalYAML() (interface{}, error) {
	switch {
	case b.Glob != "":
		return b.Glob, nil
	case b.Enabled:
		return true, nil
	default:
		return nil, nil
	}
}

// BoolOrPath models the junit-report flag: bare presence enables the report
// with the default path, an argument overrides the path.
type BoolOrPath struct {
	Enabled bool
	Path    string
}

// Set reports whether the report was requested.
func (b BoolOrPath) Set() bool {
	return b.Enabled
}

// MarshalJSON renders the path, true, or null.
func (b BoolOrPath) MarshalJSON() ([]byte, error) {
	switch {
	case b.Path != "":
		return json.Marshal(b.Path)
	case b.Enabled:
		return json.Marshal(true)
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML mirrors MarshalJSON for the yaml output path.
func (b BoolOrPath) MarshalYAML() (interface{}, error) {
	switch {
	case b.Path != "":
		return b.Path, nil
	case b.Enabled:
		return true, nil
	default:
		return nil, nil
	}
}

func boolOrGlob(v *string) BoolOrGlob {
	if v == nil {
		return BoolOrGlob{}
	}
	if *v == "" {
		return BoolOrGlob{Enabled: true}
	}
	return BoolOrGlob{Glob: *v}
}

func boolOrPath(v *string) BoolOrPath {
	if v == nil {
		return BoolOrPath{}
	}
	return BoolOrPath{Enabled: true, Path: *v}
}
