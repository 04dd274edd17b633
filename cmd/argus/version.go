package main

import (
	"fmt"
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of argus (overridden by ldflags at build time)
	Version = "0.12.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit and branch the git revision the binary was built from (optional ldflag)
	Commit = ""
	Branch = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(FullVersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func resolveBranch() string {
	if Branch != "" {
		return Branch
	}

	// Try to get branch from build info (build-time VCS detection)
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.branch" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	// Fallback: try to get branch from git at runtime
	// Use symbolic-ref to work in fresh repos without commits
	cmd := exec.Command("git", "symbolic-ref", "--short", "HEAD")
	cmd.Dir = "."
	if output, err := cmd.Output(); err == nil {
		if branch := strings.TrimSpace(string(output)); branch != "" && branch != "HEAD" {
			return branch
		}
	}

	return ""
}

// FullVersionString returns the complete version string including commit hash.
// Format: "argus version 0.12.0 (dev: main@280fbcf9a253)" or "argus version 0.12.0 (dev)"
func FullVersionString() string {
	commit := resolveCommitHash()
	branch := resolveBranch()

	if commit != "" && branch != "" {
		return fmt.Sprintf("argus version %s (%s: %s@%s)", Version, Build, branch, shortCommit(commit))
	} else if commit != "" {
		return fmt.Sprintf("argus version %s (%s: %s)", Version, Build, shortCommit(commit))
	}
	return fmt.Sprintf("argus version %s (%s)", Version, Build)
}
