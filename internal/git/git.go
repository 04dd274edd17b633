// Package git runs the read-only git queries needed to establish the
// identity of the current run. Nothing here ever mutates repository state.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DetachedHead is the placeholder git reports when no branch is checked out.
const DetachedHead = "HEAD"

// CommitInfo describes a single commit. A degraded lookup (see the identity
// resolver) carries only the SHA with zero values elsewhere.
type CommitInfo struct {
	SHA            string `json:"sha" yaml:"sha"`
	CommittedAt    int64  `json:"committedAt,omitempty" yaml:"committedAt,omitempty"`
	CommitterEmail string `json:"committerEmail,omitempty" yaml:"committerEmail,omitempty"`
	CommitterName  string `json:"committerName,omitempty" yaml:"committerName,omitempty"`
}

// Queries is the slice of git the identity resolver depends on.
// Tests substitute an in-memory implementation.
type Queries interface {
	// Commit returns details for ref, or for HEAD when ref is empty.
	Commit(ctx context.Context, ref string) (CommitInfo, error)
	// Branch returns the current branch name, or DetachedHead when detached.
	Branch(ctx context.Context) (string, error)
	// HasCommits reports whether the repository has at least one commit on
	// any ref.
	HasCommits(ctx context.Context) (bool, error)
}

// Client implements Queries by invoking the git binary.
type Client struct {
	// Dir is the working directory for git commands. Empty means the
	// process working directory.
	Dir string
}

// NewClient returns a Client running git commands in dir.
func NewClient(dir string) *Client {
	return &Client{Dir: dir}
}

// commitFormat keeps the committer name last so names containing commas
// survive the SplitN below.
const commitFormat = "%H,%ct,%ce,%cn"

func (c *Client) Commit(ctx context.Context, ref string) (CommitInfo, error) {
	args := []string{"--no-pager", "log", "-n", "1", "--format=" + commitFormat}
	if ref != "" {
		args = append(args, ref, "--")
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return CommitInfo{}, err
	}
	return parseCommit(out)
}

func (c *Client) Branch(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

func (c *Client) HasCommits(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "rev-list", "-n", "1", "--all")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func parseCommit(line string) (CommitInfo, error) {
	parts := strings.SplitN(line, ",", 4)
	if len(parts) < 4 || parts[0] == "" {
		return CommitInfo{}, fmt.Errorf("unexpected git log output: %q", line)
	}
	committedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("invalid commit timestamp %q: %w", parts[1], err)
	}
	return CommitInfo{
		SHA:            parts[0],
		CommittedAt:    committedAt,
		CommitterEmail: parts[2],
		CommitterName:  parts[3],
	}, nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
