package driver

import (
	"errors"
	"fmt"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// SourceRevision identifies the commit a program file was taken from. It
// returns the HEAD hash of the enclosing repository, suffixed with "-dirty"
// when the file differs from that commit. Files outside a repository, or in
// a repository without commits, have no revision.
func SourceRevision(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("revision: resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("revision: open repository for %s: %w", path, err)
	}
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("revision: resolve HEAD: %w", err)
	}
	revision := head.Hash().String()

	worktree, err := repo.Worktree()
	if err != nil {
		return revision, nil
	}
	rel, err := filepath.Rel(worktree.Filesystem.Root(), abs)
	if err != nil {
		return revision, nil
	}
	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("revision: worktree status: %w", err)
	}
	if fs, ok := status[filepath.ToSlash(rel)]; ok && (fs.Worktree != git.Unmodified || fs.Staging != git.Unmodified) {
		revision += "-dirty"
	}
	return revision, nil
}
