package options

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel categories for flag-resolution failures. Callers match them with
// errors.Is; the surrounding ConfigError carries the offending details.
var (
	ErrMissingProjectToken     = errors.New("missing project token")
	ErrInvalidPatchBuild       = errors.New("invalid patch build")
	ErrDuplicatePatchBuildRefs = errors.New("duplicate patch build refs")
	ErrInvalidOnly             = errors.New("invalid only pattern")
	ErrIncompatibleModes       = errors.New("incompatible run mode flags")
	ErrOnlyWithOnlyChanged     = errors.New("only combined with only-changed")
	ErrRequiresOnlyChanged     = errors.New("requires only-changed")
	ErrInvalidExitOnceUploaded = errors.New("exit-once-uploaded without upload")
	ErrJunitWithExitOnce       = errors.New("junit report with exit-once-uploaded")
	ErrInvalidJunitPath        = errors.New("invalid junit report path")
	ErrOnlyChangedNeedsBuild   = errors.New("only-changed without static build")
	ErrMissingBuildScript      = errors.New("missing build script")
	ErrMissingScript           = errors.New("missing storybook script")
	ErrMissingPort             = errors.New("missing storybook port")
	ErrUnknownPort             = errors.New("unknown storybook port")
	ErrInvalidStorybookURL     = errors.New("invalid storybook url")
)

// ConfigError is a fatal resolution failure. Err is the sentinel category,
// Flags names the offending flags, and Value holds the rejected input where
// one exists (a script name, pattern, or path).
type ConfigError struct {
	Err   error
	Flags []string
	Value string
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Error() string {
	switch e.Err {
	case ErrMissingProjectToken:
		return "missing project token; pass --project-token or set ARGUS_PROJECT_TOKEN"
	case ErrInvalidPatchBuild:
		return fmt.Sprintf("invalid --patch-build %q; expected the form <headbranch>...<basebranch>", e.Value)
	case ErrDuplicatePatchBuildRefs:
		return fmt.Sprintf("invalid --patch-build; head and base branch are both %q", e.Value)
	case ErrInvalidOnly:
		return fmt.Sprintf("invalid --only %q; expected the form <component>/<story>, wildcards allowed", e.Value)
	case ErrIncompatibleModes:
		return fmt.Sprintf("can only use one of %s", strings.Join(e.Flags, ", "))
	case ErrOnlyWithOnlyChanged:
		return "--only cannot be combined with --only-changed"
	case ErrRequiresOnlyChanged:
		return fmt.Sprintf("%s requires --only-changed", strings.Join(e.Flags, ", "))
	case ErrInvalidExitOnceUploaded:
		return fmt.Sprintf("--exit-once-uploaded cannot be used with %s", strings.Join(e.Flags, ", "))
	case ErrJunitWithExitOnce:
		return "--junit-report cannot be used with --exit-once-uploaded"
	case ErrInvalidJunitPath:
		return fmt.Sprintf("junit report path %q must end in .xml", e.Value)
	case ErrOnlyChangedNeedsBuild:
		return "--only-changed requires a static Storybook build; it cannot be used with a script, exec command, URL or port"
	case ErrMissingBuildScript:
		return fmt.Sprintf("no %q script found in %s; set --build-script-name to the script that builds your Storybook", e.Value, manifestFileName)
	case ErrMissingScript:
		return fmt.Sprintf("no %q script found in %s; set --script-name to the script that starts your Storybook", e.Value, manifestFileName)
	case ErrMissingPort:
		return "--exec requires --storybook-port"
	case ErrUnknownPort:
		return fmt.Sprintf("could not detect a port in the %q script; set --storybook-port", e.Value)
	case ErrInvalidStorybookURL:
		return fmt.Sprintf("invalid --storybook-url %q", e.Value)
	}
	return e.Err.Error()
}
