package options

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/argus-ci/argus-cli/internal/env"
	"github.com/argus-ci/argus-cli/internal/logger"
	"github.com/argus-ci/argus-cli/internal/manifest"
	"github.com/argus-ci/argus-cli/internal/util"
)

const manifestFileName = manifest.FileName

const (
	defaultBuildScript = "build-storybook"
	defaultStartScript = "storybook"
)

// onlyPattern accepts a component/story pair, with wildcards, at the end of
// the value. Deeper paths are allowed as long as the tail matches.
var onlyPattern = regexp.MustCompile(`[\w*]+/[\w*]+$`)

// Resolve turns flags, the environment, and the manifest script table into a
// single validated Options record describing exactly one run mode. Validation
// rules run in a fixed order and the first failing rule wins; every failure is
// a *ConfigError wrapping one of the sentinel categories.
func Resolve(flags Flags, e env.Env, scripts *manifest.Scripts, log *logger.Logger) (*Options, error) {
	if flags.Debug {
		log.SetVerbose(true)
		log.SetInteractive(false)
	}

	token := util.TakeLast(flags.ProjectToken)
	if token == "" {
		token = util.TakeLast(flags.AppCode)
	}
	if token == "" {
		token = e.Get("ARGUS_PROJECT_TOKEN")
	}
	if token == "" {
		token = e.Get("ARGUS_APP_CODE")
	}

	patchHeadRef, patchBaseRef := splitPatchBuild(flags.PatchBuild)
	branchName, ownerName := splitBranchName(flags.BranchName)

	o := &Options{
		ProjectToken: token,
		DryRun:       flags.DryRun,
		Verbose:      flags.Debug,
		Interactive:  flags.Interactive && !flags.CI && !flags.Debug,
		CI:           flags.CI,
		List:         flags.List,

		Only:        flags.Only,
		OnlyChanged: boolOrGlob(flags.OnlyChanged),
		Untraced:    util.NormalizeList(flags.Untraced),
		Externals:   util.NormalizeList(flags.Externals),

		Skip:                    boolOrGlob(flags.Skip),
		AutoAcceptChanges:       boolOrGlob(flags.AutoAcceptChanges),
		ExitZeroOnChanges:       boolOrGlob(flags.ExitZeroOnChanges),
		ExitOnceUploaded:        boolOrGlob(flags.ExitOnceUploaded),
		IgnoreLastBuildOnBranch: flags.IgnoreLastBuildOnBranch,
		PreserveMissing:         flags.PreserveMissing,
		AllowConsoleErrors:      flags.AllowConsoleErrors,
		JunitReport:             boolOrPath(flags.JunitReport),

		Exec:              flags.Exec,
		NoStart:           flags.DoNotStart,
		UseTunnel:         flags.StorybookURL == "" && e.Get("ARGUS_CREATE_TUNNEL") != "false",
		Port:              flags.StorybookPort,
		StorybookURL:      flags.StorybookURL,
		StorybookBuildDir: util.TakeLast(flags.StorybookBuildDir),

		BranchName:   branchName,
		OwnerName:    ownerName,
		PatchHeadRef: patchHeadRef,
		PatchBaseRef: patchBaseRef,
	}
	if flags.StorybookHTTPS {
		o.HTTPS = &HTTPS{
			Cert: flags.StorybookCert,
			Key:  flags.StorybookKey,
			CA:   flags.StorybookCA,
		}
	}

	if err := validate(flags, o); err != nil {
		return nil, err
	}
	if err := resolveRunMode(flags, o, e, scripts, log); err != nil {
		return nil, err
	}
	return o, nil
}

// validate runs the ordered rule list over the normalized record. Rules may
// not be reordered: later rules depend on earlier ones having passed, and the
// cross-flag rules rely on NoStart already reflecting a URL override.
func validate(flags Flags, o *Options) *ConfigError {
	if o.ProjectToken == "" {
		return &ConfigError{Err: ErrMissingProjectToken}
	}

	if flags.PatchBuild != "" {
		if o.PatchHeadRef == "" || o.PatchBaseRef == "" {
			return &ConfigError{Err: ErrInvalidPatchBuild, Value: flags.PatchBuild}
		}
		if o.PatchHeadRef == o.PatchBaseRef {
			return &ConfigError{Err: ErrDuplicatePatchBuildRefs, Value: o.PatchHeadRef}
		}
	}

	if o.Only != "" && !onlyPattern.MatchString(o.Only) {
		return &ConfigError{Err: ErrInvalidOnly, Value: o.Only}
	}

	if modes := runModeFlags(flags); len(modes) > 1 {
		return &ConfigError{Err: ErrIncompatibleModes, Flags: modes}
	}

	if o.Only != "" && o.OnlyChanged.Set() {
		return &ConfigError{Err: ErrOnlyWithOnlyChanged, Flags: []string{"--only", "--only-changed"}}
	}
	if len(o.Untraced) > 0 && !o.OnlyChanged.Set() {
		return &ConfigError{Err: ErrRequiresOnlyChanged, Flags: []string{"--untraced"}}
	}
	if len(o.Externals) > 0 && !o.OnlyChanged.Set() {
		return &ConfigError{Err: ErrRequiresOnlyChanged, Flags: []string{"--externals"}}
	}

	// A URL means there is nothing to start.
	if o.StorybookURL != "" {
		o.NoStart = true
	}

	if o.ExitOnceUploaded.Set() && (o.NoStart || flags.ScriptName != nil) {
		var conflicts []string
		if flags.DoNotStart {
			conflicts = append(conflicts, "--do-not-start")
		}
		if o.StorybookURL != "" {
			conflicts = append(conflicts, "--storybook-url")
		}
		if flags.ScriptName != nil {
			conflicts = append(conflicts, "--script-name")
		}
		return &ConfigError{Err: ErrInvalidExitOnceUploaded, Flags: conflicts}
	}

	if o.JunitReport.Set() && o.ExitOnceUploaded.Set() {
		return &ConfigError{Err: ErrJunitWithExitOnce, Flags: []string{"--junit-report", "--exit-once-uploaded"}}
	}
	if p := o.JunitReport.Path; p != "" && !strings.HasSuffix(p, ".xml") {
		return &ConfigError{Err: ErrInvalidJunitPath, Value: p}
	}

	return nil
}

// runModeFlags lists the mutually exclusive run mode flags that were given.
func runModeFlags(flags Flags) []string {
	var names []string
	if flags.BuildScriptName != nil {
		names = append(names, "--build-script-name")
	}
	if flags.ScriptName != nil {
		names = append(names, "--script-name")
	}
	if flags.Exec != "" {
		names = append(names, "--exec")
	}
	if flags.StorybookURL != "" {
		names = append(names, "--storybook-url")
	}
	if len(flags.StorybookBuildDir) > 0 {
		names = append(names, "--storybook-build-dir")
	}
	return names
}

// resolveRunMode decides between building a static Storybook and pointing at
// a served one, filling in the script name, port, URL and tunnel fields.
func resolveRunMode(flags Flags, o *Options, e env.Env, scripts *manifest.Scripts, log *logger.Logger) *ConfigError {
	serverish := flags.ScriptName != nil || o.Exec != "" || o.NoStart || o.StorybookURL != "" || o.Port != ""
	if !serverish {
		if o.StorybookBuildDir != "" {
			o.NoStart = true
			o.UseTunnel = false
			return nil
		}
		name := defaultBuildScript
		if flags.BuildScriptName != nil && *flags.BuildScriptName != "" {
			name = *flags.BuildScriptName
		}
		if _, ok := scripts.Get(name); !ok {
			found, ok := scripts.FindByCommandPrefix(defaultBuildScript)
			if !ok {
				return &ConfigError{Err: ErrMissingBuildScript, Value: name}
			}
			name = found
		}
		o.BuildScriptName = name
		return nil
	}

	if o.OnlyChanged.Set() {
		return &ConfigError{Err: ErrOnlyChangedNeedsBuild}
	}

	if o.StorybookURL == "" {
		if o.Exec != "" && o.Port == "" {
			return &ConfigError{Err: ErrMissingPort}
		}
		if o.Exec == "" && (o.Port == "" || !o.NoStart) {
			name := defaultStartScript
			if flags.ScriptName != nil && *flags.ScriptName != "" {
				name = *flags.ScriptName
			}
			command, ok := scripts.Get(name)
			if !ok {
				return &ConfigError{Err: ErrMissingScript, Value: name}
			}
			if o.HTTPS == nil {
				o.HTTPS = scrapeHTTPS(command, e.Get("HOME"))
			}
			if o.Port == "" {
				o.Port = scrapeFlagValue(command, "-p", "--port")
			}
			if o.Port == "" {
				return &ConfigError{Err: ErrUnknownPort, Value: name}
			}
			o.ScriptName = name
			log.Infof("Detected %q script, running with inferred port %s", name, o.Port)
		}
		scheme := "http"
		if o.HTTPS != nil {
			scheme = "https"
		}
		o.URL = fmt.Sprintf("%s://localhost:%s", scheme, o.Port)
		o.UseTunnel = true
	} else {
		o.URL = o.StorybookURL
	}

	normalized, err := normalizeURL(o.URL)
	if err != nil {
		return &ConfigError{Err: ErrInvalidStorybookURL, Value: o.URL}
	}
	o.URL = normalized
	return nil
}

// normalizeURL points the URL at the Storybook iframe entry point unless it
// already does.
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(u.Path, "iframe.html") {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		u.Path += "iframe.html"
	}
	return u.String(), nil
}

func splitPatchBuild(v string) (head, base string) {
	if v == "" {
		return "", ""
	}
	parts := strings.SplitN(v, "...", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func splitBranchName(v string) (branch, owner string) {
	if i := strings.LastIndex(v, ":"); i >= 0 {
		return v[i+1:], v[:i]
	}
	return v, ""
}
