// Package identity pins a publish run to one commit, branch and repository
// slug. Git answers what is checked out; CI environments correct it for the
// synthetic merge commits and detached heads they produce.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/argus-ci/argus-cli/internal/ci"
	"github.com/argus-ci/argus-cli/internal/env"
	"github.com/argus-ci/argus-cli/internal/git"
	"github.com/argus-ci/argus-cli/internal/logger"
)

var (
	ErrNoCommits         = errors.New("no commits in repository")
	ErrMissingTravisInfo = errors.New("incomplete travis pull request environment")
	ErrMissingGitHubInfo = errors.New("incomplete github pull request environment")
	ErrForkedRepository  = errors.New("forked repository pull request")
)

// Overrides carries the flag-level inputs that steer identity resolution.
type Overrides struct {
	BranchName   string
	PatchBaseRef string
	CI           bool
}

// Identity is the resolved record a build is reported under.
type Identity struct {
	Commit    git.CommitInfo `json:"commit" yaml:"commit"`
	Branch    string         `json:"branch" yaml:"branch"`
	Slug      string         `json:"slug,omitempty" yaml:"slug,omitempty"`
	FromCI    bool           `json:"fromCI" yaml:"fromCI"`
	CIService string         `json:"ciService,omitempty" yaml:"ciService,omitempty"`
}

// Resolver resolves identities from an injected set of inputs. Git is the
// only component that touches the machine; everything else is data.
type Resolver struct {
	git git.Queries
	env env.Env
	ci  ci.Info
	log *logger.Logger
}

func NewResolver(q git.Queries, e env.Env, info ci.Info, log *logger.Logger) *Resolver {
	return &Resolver{git: q, env: e, ci: info, log: log}
}

// Resolve determines the commit, branch and slug for this run. The checkout
// must have at least one commit; beyond that, commits referenced by the CI
// environment may be absent locally, in which case resolution degrades to the
// bare SHA with a warning rather than failing.
func (r *Resolver) Resolve(ctx context.Context, ov Overrides) (*Identity, error) {
	ok, err := r.git.HasCommits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for commits: %w", err)
	}
	if !ok {
		return nil, ErrNoCommits
	}

	commit, err := r.git.Commit(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read the checked out commit: %w", err)
	}

	branch := notHead(ov.BranchName)
	if branch == "" {
		branch = notHead(ov.PatchBaseRef)
	}
	if branch == "" {
		branch, err = r.git.Branch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read the checked out branch: %w", err)
		}
	}

	var slug string
	envSHA := r.env.Get("ARGUS_SHA")
	envBranch := r.env.Get("ARGUS_BRANCH")
	fromEnvPair := envSHA != "" && envBranch != ""

	switch {
	case fromEnvPair:
		commit = r.lookupCommit(ctx, envSHA, envSHA)
		branch = envBranch
		slug = r.env.Get("ARGUS_SLUG")

	case r.env.Get("TRAVIS_EVENT_TYPE") == "pull_request":
		// Travis checks out a merge commit for PR builds; the variables
		// below point back at the head of the PR branch.
		if r.env.Get("TRAVIS_PULL_REQUEST_SLUG") == r.env.Get("TRAVIS_REPO_SLUG") {
			r.log.Warnf("Running on a pull request build for the base repository; " +
				"push builds on the underlying branch cover the same commits")
		}
		prSHA := r.env.Get("TRAVIS_PULL_REQUEST_SHA")
		prBranch := r.env.Get("TRAVIS_PULL_REQUEST_BRANCH")
		if prSHA == "" || prBranch == "" {
			return nil, fmt.Errorf("%w: TRAVIS_PULL_REQUEST_SHA and TRAVIS_PULL_REQUEST_BRANCH must be set", ErrMissingTravisInfo)
		}
		commit = r.lookupCommit(ctx, prSHA, prSHA)
		branch = prBranch
		slug = r.env.Get("TRAVIS_PULL_REQUEST_SLUG")

	case r.env.Get("GITHUB_EVENT_NAME") == "pull_request":
		// GitHub Actions checks out a merge commit too; GITHUB_HEAD_REF
		// names the PR branch while GITHUB_SHA points at the merge.
		headRef := r.env.Get("GITHUB_HEAD_REF")
		ghSHA := r.env.Get("GITHUB_SHA")
		if headRef == "" || ghSHA == "" {
			return nil, fmt.Errorf("%w: GITHUB_HEAD_REF and GITHUB_SHA must be set", ErrMissingGitHubInfo)
		}
		if r.env.Get("GITHUB_BASE_REF") == headRef {
			return nil, ErrForkedRepository
		}
		r.log.Infof("Using branch %s from the GitHub pull_request event", headRef)
		commit = r.lookupCommit(ctx, headRef, ghSHA)
		branch = headRef
	}

	// Several CI systems check out a detached head rather than the branch.
	if branch == "" || branch == git.DetachedHead {
		branch = firstNonEmpty(
			r.ci.PrBranch,
			r.ci.Branch,
			r.env.Get("HEAD"),
			r.env.Get("GERRIT_BRANCH"),
			r.env.Get("CI_BRANCH"),
			git.DetachedHead,
		)
		if r.ci.Commit != "" {
			commit = r.lookupCommit(ctx, r.ci.Commit, r.ci.Commit)
		}
	}

	if slug == "" {
		slug = r.ci.Slug
	}

	if ov.BranchName == "" && !fromEnvPair && strings.HasPrefix(branch, "origin/") {
		r.log.Warnf("Ignoring the origin/ prefix on branch %s; pass --branch-name to keep it", branch)
		branch = strings.TrimPrefix(branch, "origin/")
	}

	fromCI := r.ci.IsCI ||
		ov.CI ||
		r.env.Has("CI") ||
		r.env.Has("REPOSITORY_URL") ||
		r.env.Has("TRAVIS_REPO_SLUG")

	return &Identity{
		Commit:    commit,
		Branch:    branch,
		Slug:      slug,
		FromCI:    fromCI,
		CIService: r.ci.Service,
	}, nil
}

// lookupCommit reads full commit details for ref, degrading to a bare SHA
// when the commit is not present in the local checkout.
func (r *Resolver) lookupCommit(ctx context.Context, ref, fallback string) git.CommitInfo {
	info, err := r.git.Commit(ctx, ref)
	if err != nil {
		r.log.Warnf("Commit %s is not in the local checkout, continuing with the bare SHA. "+
			"Avoid shallow clones to get full commit details. (%v)", fallback, err)
		return git.CommitInfo{SHA: fallback}
	}
	return info
}

func notHead(branch string) string {
	if branch == git.DetachedHead {
		return ""
	}
	return branch
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
