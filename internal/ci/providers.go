package ci

import (
	"strings"

	"github.com/argus-ci/argus-cli/internal/env"
)

// provider pairs a detection predicate with the extraction of that
// provider's metadata. Branch fields carry whatever ref the provider
// reports; for PR builds several providers report the target branch in
// Branch and the source branch in PrBranch.
type provider struct {
	service string
	detect  func(env.Env) bool
	info    func(env.Env) Info
}

var providers = []provider{
	{
		service: "appveyor",
		detect:  func(e env.Env) bool { return e.Has("APPVEYOR") },
		info: func(e env.Env) Info {
			return Info{
				Branch:   e.Get("APPVEYOR_REPO_BRANCH"),
				PrBranch: e.Get("APPVEYOR_PULL_REQUEST_HEAD_REPO_BRANCH"),
				Commit:   e.Get("APPVEYOR_REPO_COMMIT"),
				Slug:     e.Get("APPVEYOR_REPO_NAME"),
				IsPr:     e.Has("APPVEYOR_PULL_REQUEST_NUMBER"),
			}
		},
	},
	{
		service: "azure-pipelines",
		detect:  func(e env.Env) bool { return e.Has("TF_BUILD") },
		info: func(e env.Env) Info {
			return Info{
				Branch:   firstNonEmpty(e.Get("BUILD_SOURCEBRANCHNAME"), stripRefPrefix(e.Get("BUILD_SOURCEBRANCH"))),
				PrBranch: stripRefPrefix(e.Get("SYSTEM_PULLREQUEST_SOURCEBRANCH")),
				Commit:   e.Get("BUILD_SOURCEVERSION"),
				Slug:     e.Get("BUILD_REPOSITORY_NAME"),
				IsPr:     e.Has("SYSTEM_PULLREQUEST_PULLREQUESTID"),
			}
		},
	},
	{
		service: "bitbucket",
		detect:  func(e env.Env) bool { return e.Has("BITBUCKET_BUILD_NUMBER") },
		info: func(e env.Env) Info {
			isPr := e.Has("BITBUCKET_PR_ID")
			branch := e.Get("BITBUCKET_BRANCH")
			info := Info{
				Branch: branch,
				Commit: e.Get("BITBUCKET_COMMIT"),
				Slug:   e.Get("BITBUCKET_REPO_FULL_NAME"),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "bitrise",
		detect:  func(e env.Env) bool { return e.Has("BITRISE_BUILD_URL") },
		info: func(e env.Env) Info {
			isPr := e.Has("BITRISE_PULL_REQUEST")
			branch := e.Get("BITRISE_GIT_BRANCH")
			info := Info{
				Branch: branch,
				Commit: e.Get("BITRISE_GIT_COMMIT"),
				Slug:   joinSlug(e.Get("BITRISEIO_GIT_REPOSITORY_OWNER"), e.Get("BITRISEIO_GIT_REPOSITORY_SLUG")),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "buildkite",
		detect:  func(e env.Env) bool { return e.Has("BUILDKITE") },
		info: func(e env.Env) Info {
			isPr := isTruthy(e.Get("BUILDKITE_PULL_REQUEST"))
			branch := e.Get("BUILDKITE_BRANCH")
			info := Info{
				Branch: branch,
				Commit: e.Get("BUILDKITE_COMMIT"),
				Slug:   joinSlug(e.Get("BUILDKITE_ORGANIZATION_SLUG"), e.Get("BUILDKITE_PIPELINE_SLUG")),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "circleci",
		detect:  func(e env.Env) bool { return e.Has("CIRCLECI") },
		info: func(e env.Env) Info {
			isPr := e.Has("CIRCLE_PULL_REQUEST") || e.Has("CIRCLE_PR_NUMBER")
			branch := e.Get("CIRCLE_BRANCH")
			info := Info{
				Branch: branch,
				Commit: e.Get("CIRCLE_SHA1"),
				Slug:   joinSlug(e.Get("CIRCLE_PROJECT_USERNAME"), e.Get("CIRCLE_PROJECT_REPONAME")),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "cirrus",
		detect:  func(e env.Env) bool { return e.Has("CIRRUS_CI") },
		info: func(e env.Env) Info {
			isPr := e.Has("CIRRUS_PR")
			branch := e.Get("CIRRUS_BRANCH")
			info := Info{
				Branch: branch,
				Commit: e.Get("CIRRUS_CHANGE_IN_REPO"),
				Slug:   e.Get("CIRRUS_REPO_FULL_NAME"),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "codebuild",
		detect:  func(e env.Env) bool { return e.Has("CODEBUILD_BUILD_ID") },
		info: func(e env.Env) Info {
			return Info{
				Branch: stripRefPrefix(e.Get("CODEBUILD_WEBHOOK_HEAD_REF")),
				Commit: e.Get("CODEBUILD_RESOLVED_SOURCE_VERSION"),
				IsPr:   strings.HasPrefix(e.Get("CODEBUILD_WEBHOOK_EVENT"), "PULL_REQUEST"),
			}
		},
	},
	{
		service: "codefresh",
		detect:  func(e env.Env) bool { return e.Has("CF_BUILD_ID") },
		info: func(e env.Env) Info {
			isPr := e.Has("CF_PULL_REQUEST_NUMBER")
			branch := e.Get("CF_BRANCH")
			info := Info{
				Branch: branch,
				Commit: e.Get("CF_REVISION"),
				Slug:   joinSlug(e.Get("CF_REPO_OWNER"), e.Get("CF_REPO_NAME")),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "codeship",
		detect:  func(e env.Env) bool { return e.Get("CI_NAME") == "codeship" },
		info: func(e env.Env) Info {
			return Info{
				Branch: e.Get("CI_BRANCH"),
				Commit: e.Get("CI_COMMIT_ID"),
				Slug:   e.Get("CI_REPO_NAME"),
			}
		},
	},
	{
		service: "drone",
		detect:  func(e env.Env) bool { return e.Has("DRONE") },
		info: func(e env.Env) Info {
			return Info{
				Branch:   e.Get("DRONE_BRANCH"),
				PrBranch: e.Get("DRONE_SOURCE_BRANCH"),
				Commit:   e.Get("DRONE_COMMIT"),
				Slug:     e.Get("DRONE_REPO"),
				IsPr:     e.Get("DRONE_BUILD_EVENT") == "pull_request",
			}
		},
	},
	{
		service: "github-actions",
		detect:  func(e env.Env) bool { return e.Has("GITHUB_ACTIONS") },
		info: func(e env.Env) Info {
			event := e.Get("GITHUB_EVENT_NAME")
			prBranch := e.Get("GITHUB_HEAD_REF")
			return Info{
				Branch:   firstNonEmpty(prBranch, stripRefPrefix(e.Get("GITHUB_REF"))),
				PrBranch: prBranch,
				Commit:   e.Get("GITHUB_SHA"),
				Slug:     e.Get("GITHUB_REPOSITORY"),
				IsPr:     event == "pull_request" || event == "pull_request_target",
			}
		},
	},
	{
		service: "gitlab",
		detect:  func(e env.Env) bool { return e.Has("GITLAB_CI") },
		info: func(e env.Env) Info {
			return Info{
				Branch:   e.Get("CI_COMMIT_REF_NAME"),
				PrBranch: e.Get("CI_MERGE_REQUEST_SOURCE_BRANCH_NAME"),
				Commit:   e.Get("CI_COMMIT_SHA"),
				Slug:     e.Get("CI_PROJECT_PATH"),
				IsPr:     e.Has("CI_MERGE_REQUEST_ID"),
			}
		},
	},
	{
		service: "heroku",
		detect:  func(e env.Env) bool { return e.Has("HEROKU_TEST_RUN_ID") },
		info: func(e env.Env) Info {
			return Info{
				Branch: e.Get("HEROKU_TEST_RUN_BRANCH"),
				Commit: e.Get("HEROKU_TEST_RUN_COMMIT_VERSION"),
			}
		},
	},
	{
		service: "jenkins",
		detect:  func(e env.Env) bool { return e.Has("JENKINS_URL") && e.Has("BUILD_ID") },
		info: func(e env.Env) Info {
			return Info{
				Branch:   firstNonEmpty(e.Get("GIT_BRANCH"), e.Get("BRANCH_NAME")),
				PrBranch: e.Get("CHANGE_BRANCH"),
				Commit:   e.Get("GIT_COMMIT"),
				IsPr:     e.Has("CHANGE_ID"),
			}
		},
	},
	{
		service: "netlify",
		detect:  func(e env.Env) bool { return e.Has("NETLIFY") },
		info: func(e env.Env) Info {
			isPr := e.Get("PULL_REQUEST") == "true"
			branch := e.Get("HEAD")
			info := Info{
				Branch: branch,
				Commit: e.Get("COMMIT_REF"),
				IsPr:   isPr,
			}
			if isPr {
				info.PrBranch = branch
			}
			return info
		},
	},
	{
		service: "semaphore",
		detect:  func(e env.Env) bool { return e.Has("SEMAPHORE") },
		info: func(e env.Env) Info {
			return Info{
				Branch:   firstNonEmpty(e.Get("SEMAPHORE_GIT_BRANCH"), e.Get("BRANCH_NAME")),
				PrBranch: e.Get("SEMAPHORE_GIT_PR_BRANCH"),
				Commit:   firstNonEmpty(e.Get("SEMAPHORE_GIT_SHA"), e.Get("REVISION")),
				Slug:     firstNonEmpty(e.Get("SEMAPHORE_GIT_REPO_SLUG"), e.Get("SEMAPHORE_REPO_SLUG")),
				IsPr:     e.Has("SEMAPHORE_GIT_PR_NUMBER") || e.Has("PULL_REQUEST_NUMBER"),
			}
		},
	},
	{
		service: "teamcity",
		detect:  func(e env.Env) bool { return e.Has("TEAMCITY_VERSION") },
		info: func(e env.Env) Info {
			return Info{
				Branch: e.Get("TEAMCITY_BUILD_BRANCH"),
				Commit: e.Get("BUILD_VCS_NUMBER"),
			}
		},
	},
	{
		service: "travis",
		detect:  func(e env.Env) bool { return e.Has("TRAVIS") },
		info: func(e env.Env) Info {
			isPr := isTruthy(e.Get("TRAVIS_PULL_REQUEST"))
			commit := e.Get("TRAVIS_COMMIT")
			if isPr && e.Has("TRAVIS_PULL_REQUEST_SHA") {
				commit = e.Get("TRAVIS_PULL_REQUEST_SHA")
			}
			return Info{
				Branch:   e.Get("TRAVIS_BRANCH"),
				PrBranch: e.Get("TRAVIS_PULL_REQUEST_BRANCH"),
				Commit:   commit,
				Slug:     e.Get("TRAVIS_REPO_SLUG"),
				IsPr:     isPr,
			}
		},
	},
	{
		service: "vercel",
		detect:  func(e env.Env) bool { return e.Has("VERCEL") || e.Has("NOW_BUILDER") },
		info: func(e env.Env) Info {
			return Info{
				Branch: e.Get("VERCEL_GIT_COMMIT_REF"),
				Commit: e.Get("VERCEL_GIT_COMMIT_SHA"),
				Slug:   joinSlug(e.Get("VERCEL_GIT_REPO_OWNER"), e.Get("VERCEL_GIT_REPO_SLUG")),
			}
		},
	},
}
