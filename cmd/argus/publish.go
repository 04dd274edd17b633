package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/term"

	"github.com/argus-ci/argus-cli/internal/ci"
	"github.com/argus-ci/argus-cli/internal/env"
	"github.com/argus-ci/argus-cli/internal/git"
	"github.com/argus-ci/argus-cli/internal/identity"
	"github.com/argus-ci/argus-cli/internal/manifest"
	"github.com/argus-ci/argus-cli/internal/options"
	"github.com/argus-ci/argus-cli/internal/runcontext"
	"github.com/argus-ci/argus-cli/internal/telemetry"
)

const defaultDiagnosticsFile = "argus-diagnostics.json"

// Flags read as "--flag" or "--flag=value". The bare form enables the
// behavior unconditionally; a value scopes it (usually to a branch glob).
var optionalValueFlags = []string{
	"only-changed",
	"skip",
	"auto-accept-changes",
	"exit-zero-on-changes",
	"exit-once-uploaded",
	"junit-report",
	"build-script-name",
	"script-name",
}

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Resolve how your Storybook is built or served and publish it",
		Long: `Publish works out where your Storybook comes from: a build script, a
prebuilt directory, a dev server script, a custom command, or an external
URL. It pins the run to a commit and branch, corrects for CI merge commits,
and emits the resolved plan.`,
		Run: runPublish,
	}

	f := cmd.Flags()
	f.StringArrayP("project-token", "t", nil, "Project token; the last value wins (also ARGUS_PROJECT_TOKEN)")
	f.StringArray("app-code", nil, "Alias for --project-token")
	_ = f.MarkDeprecated("app-code", "use --project-token instead")

	f.String("only", "", "Only snapshot stories matching <component>/<story>; wildcards allowed")
	f.String("only-changed", "", "Only snapshot stories affected by files changed since the last build; value limits it to matching branches")
	f.StringArray("untraced", nil, "Disregard changed files matching this glob when using --only-changed")
	f.StringArray("externals", nil, "Treat changed files matching this glob as affecting every story when using --only-changed")

	f.Bool("list", false, "List the snapshotted stories")
	f.Bool("dry-run", false, "Resolve the publish plan without publishing anything")
	f.Bool("ci", false, "Mark the build as coming from CI and disable interactive elements")

	f.String("skip", "", "Skip this build; value limits it to matching branches")
	f.String("auto-accept-changes", "", "Accept visual changes without review; value limits it to matching branches")
	f.String("exit-zero-on-changes", "", "Exit with code 0 even when changes are found; value limits it to matching branches")
	f.String("exit-once-uploaded", "", "Exit as soon as the Storybook is published; value limits it to matching branches")
	f.String("ignore-last-build-on-branch", "", "Do not use the last build on matching branches as a baseline")
	f.Bool("preserve-missing", false, "Treat missing stories as unchanged rather than removed")
	f.Bool("allow-console-errors", false, "Continue publishing when the Storybook logs console errors")
	f.String("junit-report", "", "Write a JUnit XML report; value overrides the path and must end in .xml")

	f.StringP("build-script-name", "b", "", "Manifest script that builds your Storybook")
	f.StringP("script-name", "s", "", "Manifest script that serves your Storybook")
	f.StringP("exec", "e", "", "Command that serves your Storybook")
	f.BoolP("do-not-start", "S", false, "Do not run or build Storybook; it is already served")
	f.StringP("storybook-port", "p", "", "Port the served Storybook listens on")
	f.Bool("storybook-https", false, "The served Storybook uses HTTPS")
	f.String("storybook-cert", "", "Certificate path of the served Storybook")
	f.String("storybook-key", "", "Key path of the served Storybook")
	f.String("storybook-ca", "", "CA path of the served Storybook")
	f.StringP("storybook-url", "u", "", "URL of an externally reachable Storybook")
	f.StringArrayP("storybook-build-dir", "d", nil, "Directory with a prebuilt Storybook; the last value wins")

	f.String("patch-build", "", "Publish a patch build for <headbranch>...<basebranch>")
	f.String("branch-name", "", "Override the branch name, optionally as <owner>:<branch>")

	f.StringP("output-format", "o", "", "Machine readable output (json|yaml)")
	f.String("diagnostics-file", "", "Write the resolved run context to this file; bare flag uses "+defaultDiagnosticsFile)

	for _, name := range optionalValueFlags {
		f.Lookup(name).NoOptDefVal = "true"
	}
	f.Lookup("diagnostics-file").NoOptDefVal = defaultDiagnosticsFile

	return cmd
}

var publishCmd = newPublishCmd()

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) {
	ctx, span := telemetry.Tracer("").Start(rootCtx, "argus.publish")
	defer span.End()

	flags := collectPublishFlags(cmd)

	scripts, err := manifest.Load(".")
	if err != nil {
		FatalError("%v", err)
	}

	e := env.System()

	opts, err := options.Resolve(flags, e, scripts, appLog)
	if err != nil {
		if errors.Is(err, options.ErrMissingProjectToken) {
			FatalErrorWithHint(err.Error(), "Sign in to Argus and copy the project token from the project settings")
		}
		FatalError("%v", err)
	}

	queries := telemetry.WrapGit(git.NewClient("."))
	id, err := identity.NewResolver(queries, e, ci.Detect(e), appLog).Resolve(ctx, identity.Overrides{
		BranchName:   opts.BranchName,
		PatchBaseRef: opts.PatchBaseRef,
		CI:           opts.CI,
	})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNoCommits):
			FatalErrorWithHint(err.Error(), "Make at least one commit before publishing")
		case errors.Is(err, identity.ErrForkedRepository):
			FatalErrorWithHint(err.Error(), "Publish forks under their own project token")
		}
		FatalError("%v", err)
	}

	rc := runcontext.New(Version, opts, id)

	mode := runMode(opts)
	span.SetAttributes(
		attribute.String("argus.mode", mode),
		attribute.String("argus.branch", id.Branch),
		attribute.Bool("argus.from_ci", id.FromCI),
	)
	resolved, _ := telemetry.Meter("").Int64Counter("argus.publish.resolved",
		metric.WithDescription("Publish plans resolved"),
	)
	resolved.Add(ctx, 1, metric.WithAttributes(attribute.String("argus.mode", mode)))

	if file := stringFlag(cmd, "diagnostics-file"); file != "" {
		if err := rc.WriteFile(file); err != nil {
			WarnError("%v", err)
		} else {
			appLog.Debugf("Wrote run context to %s", file)
		}
	}

	switch format := stringFlag(cmd, "output-format"); format {
	case "":
		printSummary(rc)
	case "json":
		outputJSON(rc)
	case "yaml":
		outputYAML(rc)
	default:
		FatalError("unsupported output format %q; use json or yaml", format)
	}
}

// collectPublishFlags folds the command line, the config file and the
// environment into the resolver's flat flag structure. Interactivity is
// decided here so resolution itself never touches the terminal.
func collectPublishFlags(cmd *cobra.Command) options.Flags {
	return options.Flags{
		ProjectToken: stringArrayFlag(cmd, "project-token"),
		AppCode:      stringArrayFlag(cmd, "app-code"),

		Only:        stringFlag(cmd, "only"),
		OnlyChanged: optionalValueFlag(cmd, "only-changed"),
		Untraced:    stringArrayFlag(cmd, "untraced"),
		Externals:   stringArrayFlag(cmd, "externals"),

		List:        boolFlag(cmd, "list"),
		DryRun:      boolFlag(cmd, "dry-run"),
		Debug:       boolFlag(cmd, "debug"),
		CI:          boolFlag(cmd, "ci"),
		Interactive: term.IsTerminal(int(os.Stdout.Fd())),

		Skip:                    optionalValueFlag(cmd, "skip"),
		AutoAcceptChanges:       optionalValueFlag(cmd, "auto-accept-changes"),
		ExitZeroOnChanges:       optionalValueFlag(cmd, "exit-zero-on-changes"),
		ExitOnceUploaded:        optionalValueFlag(cmd, "exit-once-uploaded"),
		IgnoreLastBuildOnBranch: stringFlag(cmd, "ignore-last-build-on-branch"),
		PreserveMissing:         boolFlag(cmd, "preserve-missing"),
		AllowConsoleErrors:      boolFlag(cmd, "allow-console-errors"),
		JunitReport:             optionalValueFlag(cmd, "junit-report"),

		BuildScriptName:   optionalValueFlag(cmd, "build-script-name"),
		ScriptName:        optionalValueFlag(cmd, "script-name"),
		Exec:              stringFlag(cmd, "exec"),
		DoNotStart:        boolFlag(cmd, "do-not-start"),
		StorybookPort:     stringFlag(cmd, "storybook-port"),
		StorybookURL:      stringFlag(cmd, "storybook-url"),
		StorybookBuildDir: stringArrayFlag(cmd, "storybook-build-dir"),
		StorybookHTTPS:    boolFlag(cmd, "storybook-https"),
		StorybookCert:     stringFlag(cmd, "storybook-cert"),
		StorybookKey:      stringFlag(cmd, "storybook-key"),
		StorybookCA:       stringFlag(cmd, "storybook-ca"),

		PatchBuild: stringFlag(cmd, "patch-build"),
		BranchName: stringFlag(cmd, "branch-name"),
	}
}

const (
	modeBuild    = "build"
	modeBuildDir = "build-dir"
	modeScript   = "script"
	modeExec     = "exec"
	modeURL      = "url"
	modeServer   = "server"
)

func runMode(o *options.Options) string {
	switch {
	case o.StorybookBuildDir != "":
		return modeBuildDir
	case o.BuildScriptName != "":
		return modeBuild
	case o.StorybookURL != "":
		return modeURL
	case o.Exec != "":
		return modeExec
	case o.ScriptName != "":
		return modeScript
	default:
		return modeServer
	}
}

func printSummary(rc *runcontext.Context) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	o, id := rc.Options, rc.Identity

	fmt.Printf("%s v%s\n", bold("Argus"), rc.Version)
	fmt.Printf("Project token %s\n", faint(maskToken(o.ProjectToken)))

	switch runMode(o) {
	case modeBuildDir:
		fmt.Printf("Publish the prebuilt Storybook in %s\n", bold(o.StorybookBuildDir))
	case modeBuild:
		fmt.Printf("Build Storybook with the %s script, then publish it\n", bold(o.BuildScriptName))
	case modeURL:
		fmt.Printf("Publish the Storybook served at %s\n", bold(o.URL))
	case modeExec:
		fmt.Printf("Serve Storybook with %s, then publish %s\n", bold(o.Exec), bold(o.URL))
	case modeScript:
		fmt.Printf("Serve Storybook with the %s script, then publish %s\n", bold(o.ScriptName), bold(o.URL))
	case modeServer:
		fmt.Printf("Publish the Storybook already served at %s\n", bold(o.URL))
	}

	origin := "local run"
	if id.FromCI {
		origin = "CI"
		if id.CIService != "" {
			origin = id.CIService
		}
	}
	fmt.Printf("Commit %s on branch %s (%s)\n", green(shortCommit(id.Commit.SHA)), bold(id.Branch), origin)
	if id.Slug != "" {
		fmt.Printf("Repository %s\n", id.Slug)
	}
	if o.DryRun {
		fmt.Println(faint("Dry run, nothing will be published"))
	}
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return "****" + token[len(token)-4:]
}
