// Package gitops stages, commits and pushes files the fixer edited.
package gitops

import (
	"fmt"
	"os"
	"time"

	git "gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/plumbing/object"
)

// CommitFixes stages the given paths (relative to the repository root)
// and commits them. Returns the commit hash.
func CommitFixes(repoRoot string, paths []string, message string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("nothing to commit")
	}

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", repoRoot, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return "", fmt.Errorf("stage %s: %w", p, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: author(),
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash.String(), nil
}

// Push pushes the current branch to its default remote.
func Push(repoRoot string) error {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return fmt.Errorf("open repository %s: %w", repoRoot, err)
	}
	err = repo.Push(&git.PushOptions{})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// author builds the commit signature from the usual git environment
// variables, with a tool fallback when they are unset.
func author() *object.Signature {
	name := os.Getenv("GIT_AUTHOR_NAME")
	if name == "" {
		name = "revfix"
	}
	email := os.Getenv("GIT_AUTHOR_EMAIL")
	if email == "" {
		email = "revfix@localhost"
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}
