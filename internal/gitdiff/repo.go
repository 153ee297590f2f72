// Package gitdiff reads patches and file versions out of a git work tree.
package gitdiff

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Repo runs git in Dir. An empty Dir means the current directory.
type Repo struct {
	Dir string
}

func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir}
}

// StagedDiff returns `git diff --staged`, limited to paths when any are
// given. No staged changes yields an empty string.
func (r *Repo) StagedDiff(ctx context.Context, paths ...string) (string, error) {
	args := []string{"diff", "--staged", "--no-color", "--no-ext-diff"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	output, err := r.git(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get staged diff: %w", err)
	}
	return output, nil
}

func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	output, err := r.git(ctx, "diff", "--staged", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("failed to get staged files: %w", err)
	}
	return parseNameList(output), nil
}

// HeadVersion returns the committed content of path. A file that does not
// exist in HEAD (or a repo without commits) reads as empty.
func (r *Repo) HeadVersion(ctx context.Context, path string) (string, error) {
	return r.show(ctx, "HEAD:"+path)
}

// StagedVersion returns the content of path in the index. A file removed
// from the index reads as empty.
func (r *Repo) StagedVersion(ctx context.Context, path string) (string, error) {
	return r.show(ctx, ":"+path)
}

func (r *Repo) show(ctx context.Context, object string) (string, error) {
	if _, err := r.git(ctx, "cat-file", "-e", object); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up %s: %w", object, err)
	}

	output, err := r.git(ctx, "show", object)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", object, err)
	}
	return output, nil
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(output), nil
}

func parseNameList(output string) []string {
	files := []string{}
	for line := range strings.SplitSeq(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}
