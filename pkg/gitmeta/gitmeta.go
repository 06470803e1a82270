// Package gitmeta reads release metadata from the project's git repository.
package gitmeta

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
)

// shortHashLen matches the short-hash width used in build metadata.
const shortHashLen = 7

// HeadCommit returns the full hash of the current HEAD commit.
func HeadCommit(root string) (string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

// ShortCommit returns the abbreviated HEAD hash, or "unknown" when the
// repository cannot be read. Build metadata tolerates a missing hash.
func ShortCommit(root string) string {
	hash, err := HeadCommit(root)
	if err != nil || len(hash) < shortHashLen {
		return "unknown"
	}
	return hash[:shortHashLen]
}

// RepoSlug determines the owner/repo slug from the origin remote,
// falling back to the REPO and GITHUB_REPOSITORY environment variables.
func RepoSlug(root string) (string, error) {
	if slug, err := slugFromRemote(root); err == nil {
		return slug, nil
	}

	if slug := os.Getenv("REPO"); slug != "" {
		return slug, nil
	}
	if slug := os.Getenv("GITHUB_REPOSITORY"); slug != "" {
		return slug, nil
	}

	return "", fmt.Errorf(
		"unable to determine repo slug: set REPO=owner/repo or configure the git remote origin",
	)
}

func slugFromRemote(root string) (string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to read origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}

	return ParseSlug(urls[0])
}

// ParseSlug extracts owner/repo from an https or ssh remote URL.
func ParseSlug(url string) (string, error) {
	slug := url
	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		slug = strings.TrimPrefix(url, "git@github.com:")
	case strings.HasPrefix(url, "https://github.com/"):
		slug = strings.TrimPrefix(url, "https://github.com/")
	case strings.HasPrefix(url, "ssh://git@github.com/"):
		slug = strings.TrimPrefix(url, "ssh://git@github.com/")
	}
	slug = strings.TrimSuffix(slug, ".git")
	slug = strings.Trim(slug, "/")

	if strings.Count(slug, "/") != 1 {
		return "", fmt.Errorf("cannot parse owner/repo from remote URL %q", url)
	}
	return slug, nil
}

// Toolchain returns the compiler version string, e.g. "go1.24.1".
func Toolchain() string {
	out, err := exec.Command("go", "version").Output()
	if err != nil {
		return "unknown"
	}
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		return "unknown"
	}
	return fields[2]
}
