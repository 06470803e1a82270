package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{name: "full semver", tag: "v1.2.3", wantErr: false},
		{name: "two components", tag: "v0.1", wantErr: false},
		{name: "prerelease suffix", tag: "v1.0.0-rc1", wantErr: false},
		{name: "beta component", tag: "v2.0.0.beta2", wantErr: false},
		{name: "missing prefix", tag: "1.2.3", wantErr: true},
		{name: "too few components", tag: "vX", wantErr: true},
		{name: "single component", tag: "v1", wantErr: true},
		{name: "empty", tag: "", wantErr: true},
		{name: "trailing dot", tag: "v1.2.", wantErr: true},
		{name: "spaces", tag: "v1. 2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tag)
			if tt.wantErr {
				assert.Error(t, err, "tag %q should be rejected", tt.tag)
			} else {
				assert.NoError(t, err, "tag %q should be accepted", tt.tag)
			}
		})
	}
}

func TestIsPrerelease(t *testing.T) {
	assert.True(t, IsPrerelease("v1.0.0-alpha"))
	assert.True(t, IsPrerelease("v1.0.0-beta.2"))
	assert.True(t, IsPrerelease("v2.1.0-rc1"))
	assert.True(t, IsPrerelease("v1.0.0-RC1"), "marker matching is case-insensitive")
	assert.False(t, IsPrerelease("v1.0.0"))
	assert.False(t, IsPrerelease("v0.1"))
}
