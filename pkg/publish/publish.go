// Package publish implements the client-side release protocol: idempotent
// create-or-get of the remote release and asset uploads.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v63/github"
)

// Environment variables accepted for the API token; the first one present
// wins.
var tokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// defaultBranch is the target fallback when the source revision cannot be
// resolved.
const defaultBranch = "main"

// ConflictError reports an asset name collision on the remote release.
// Conflicts are never auto-resolved: the operator must remove the stale
// asset and retry, so a duplicate is always attributable to a human
// decision.
type ConflictError struct {
	Asset string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"asset %q already exists on the release; delete it on the remote and retry",
		e.Asset,
	)
}

// IsConflict reports whether err is an asset name collision.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// ReleaseSpec describes the release to create when none exists for the tag.
type ReleaseSpec struct {
	Tag        string
	Name       string
	Notes      string
	Draft      bool
	Prerelease bool
	// TargetCommitish is the source revision the tag points at; empty
	// falls back to the default branch.
	TargetCommitish string
}

// Publisher drives the remote release API for one repository.
type Publisher struct {
	client *github.Client
	owner  string
	repo   string
}

// New returns a Publisher for owner/repo authenticated with token.
func New(token, owner, repo string) *Publisher {
	return &Publisher{
		client: github.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
	}
}

// NewWithClient returns a Publisher using a preconfigured client.
// Tests point the client at a local server.
func NewWithClient(client *github.Client, owner, repo string) *Publisher {
	return &Publisher{client: client, owner: owner, repo: repo}
}

// CreateOrGet finds the release for spec.Tag or creates it. Re-running the
// pipeline after a partial failure never creates a duplicate release for
// the same tag. Lookup failures other than "not found" are fatal and no
// creation is attempted.
func (p *Publisher) CreateOrGet(ctx context.Context, spec ReleaseSpec) (*github.RepositoryRelease, error) {
	release, resp, err := p.client.Repositories.GetReleaseByTag(ctx, p.owner, p.repo, spec.Tag)
	if err == nil {
		return release, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return nil, fmt.Errorf("failed to look up release for tag %s: %w", spec.Tag, err)
	}

	name := spec.Name
	if name == "" {
		name = spec.Tag
	}
	target := spec.TargetCommitish
	if target == "" {
		target = defaultBranch
	}

	created, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName:         github.String(spec.Tag),
		Name:            github.String(name),
		Body:            github.String(spec.Notes),
		Draft:           github.Bool(spec.Draft),
		Prerelease:      github.Bool(spec.Prerelease),
		TargetCommitish: github.String(target),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create release for tag %s: %w", spec.Tag, err)
	}
	return created, nil
}

// UploadAsset uploads the file at path to the release, named after the
// file's base name. A name collision surfaces as a ConflictError and is
// never silently overwritten; any other failure is returned as-is so the
// caller aborts remaining uploads while keeping local artifacts intact.
func (p *Publisher) UploadAsset(ctx context.Context, release *github.RepositoryRelease, path string) error {
	f, err := os.Open(path) // #nosec G304 -- uploading artifacts from the dist root
	if err != nil {
		return fmt.Errorf("failed to open asset %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)

	opts := &github.UploadOptions{
		Name:      name,
		MediaType: mediaTypeFor(name),
	}

	_, resp, err := p.client.Repositories.UploadReleaseAsset(
		ctx, p.owner, p.repo, release.GetID(), opts, f,
	)
	if err != nil {
		if resp != nil &&
			(resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict) {
			return &ConflictError{Asset: name}
		}
		return fmt.Errorf("failed to upload asset %s: %w", name, err)
	}
	return nil
}

func mediaTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".zip"):
		return "application/zip"
	case strings.HasSuffix(name, ".txt"):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// TokenFromEnv returns the first configured token variable, or empty.
func TokenFromEnv() string {
	for _, name := range tokenEnvVars {
		if token := os.Getenv(name); token != "" {
			return token
		}
	}
	return ""
}

// ResolveToken picks the token in precedence order: explicit value, token
// file, environment.
func ResolveToken(explicit, tokenFile string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if tokenFile != "" {
		data, err := os.ReadFile(tokenFile) // #nosec G304 -- operator-chosen token file
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("token file %s is empty", tokenFile)
		}
		return token, nil
	}
	if token := TokenFromEnv(); token != "" {
		return token, nil
	}
	return "", fmt.Errorf(
		"no token configured: pass --token, --token-file, or set %s",
		strings.Join(tokenEnvVars, " or "),
	)
}
