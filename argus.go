// Package argus provides a minimal public API for embedding the publish
// pipeline in other Go tools.
//
// Most automation should shell out to the argus binary and consume its JSON
// output. This package exports only the types and entry points needed to
// resolve publish options and commit identity programmatically.
package argus

import (
	"context"

	"github.com/argus-ci/argus-cli/internal/ci"
	"github.com/argus-ci/argus-cli/internal/env"
	"github.com/argus-ci/argus-cli/internal/git"
	"github.com/argus-ci/argus-cli/internal/identity"
	"github.com/argus-ci/argus-cli/internal/logger"
	"github.com/argus-ci/argus-cli/internal/manifest"
	"github.com/argus-ci/argus-cli/internal/options"
	"github.com/argus-ci/argus-cli/internal/runcontext"
)

// Core types for resolving a publish run
type (
	Flags      = options.Flags
	Options    = options.Options
	Identity   = identity.Identity
	Overrides  = identity.Overrides
	CommitInfo = git.CommitInfo
	RunContext = runcontext.Context
	CIInfo     = ci.Info
)

// ResolveOptions folds command line flags, ARGUS_* environment variables,
// and the package manifest in dir into validated publish options.
func ResolveOptions(flags Flags, dir string) (*Options, error) {
	scripts, err := manifest.Load(dir)
	if err != nil {
		return nil, err
	}
	return options.Resolve(flags, env.System(), scripts, logger.Default())
}

// ResolveIdentity pins a run to a commit and branch using the repository at
// dir, the process environment, and any detected CI provider.
func ResolveIdentity(ctx context.Context, dir string, ov Overrides) (*Identity, error) {
	e := env.System()
	resolver := identity.NewResolver(git.NewClient(dir), e, ci.Detect(e), logger.Default())
	return resolver.Resolve(ctx, ov)
}

// NewRunContext stamps resolved options and identity into a run context
// ready to be serialized.
func NewRunContext(version string, opts *Options, id *Identity) *RunContext {
	return runcontext.New(version, opts, id)
}

// DetectCI reports which CI provider the current environment belongs to.
func DetectCI() CIInfo {
	return ci.Detect(env.System())
}
