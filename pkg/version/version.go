// Package version validates release tags and classifies pre-release versions.
package version

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// tagPattern matches a 'v' prefix followed by at least two dot-separated
// numeric-or-identifier components, e.g. v1.2.3, v0.1, v1.0.0-rc1.
var tagPattern = regexp2.MustCompile(`^v[0-9A-Za-z-]+(\.[0-9A-Za-z-]+)+$`, 0)

// prereleaseMarkers are the tokens that mark a tag as a pre-release
// even without an explicit flag.
var prereleaseMarkers = []string{"alpha", "beta", "rc"}

// Validate checks that tag is an acceptable release tag.
func Validate(tag string) error {
	if !strings.HasPrefix(tag, "v") {
		return fmt.Errorf("tag %q must start with 'v' (e.g. v0.1.0)", tag)
	}

	ok, err := tagPattern.MatchString(tag)
	if err != nil {
		return fmt.Errorf("failed to match tag %q: %w", tag, err)
	}
	if !ok {
		return fmt.Errorf(
			"tag %q must follow semantic versioning with at least two components (e.g. v1.0.0)",
			tag,
		)
	}

	return nil
}

// IsPrerelease reports whether the tag contains a recognized
// pre-release marker token (alpha, beta, rc).
func IsPrerelease(tag string) bool {
	lower := strings.ToLower(tag)
	for _, marker := range prereleaseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
