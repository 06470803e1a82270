package signing

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claraverse-space/clara-release/pkg/stage"
	"github.com/claraverse-space/clara-release/pkg/tools"
)

func TestSignSkipsNonWindowsBinary(t *testing.T) {
	s := &Signer{CertPath: "cert.pfx"}
	outcome := s.Sign("claracore-linux-amd64")
	assert.Equal(t, stage.Skipped, outcome.Status)
}

func TestSignSkipsWithoutCertificate(t *testing.T) {
	s := &Signer{}
	outcome := s.Sign("claracore-windows-amd64.exe")
	assert.Equal(t, stage.Skipped, outcome.Status)
	assert.Contains(t, outcome.Reason, CertPathEnv)
}

func TestSignSkipsMissingCertificateFile(t *testing.T) {
	s := &Signer{CertPath: filepath.Join(t.TempDir(), "nope.pfx")}
	outcome := s.Sign("claracore-windows-amd64.exe")
	assert.Equal(t, stage.Skipped, outcome.Status)
	assert.Contains(t, outcome.Reason, "unsigned")
}

func TestSignSkipsWhenSigntoolMissing(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pfx")
	require.NoError(t, os.WriteFile(cert, []byte("pfx"), 0o600))

	s := &Signer{
		CertPath: cert,
		Resolver: &tools.Resolver{Tool: "signtool", Names: []string{"definitely-not-signtool"}},
	}
	outcome := s.Sign("claracore-windows-amd64.exe")
	assert.Equal(t, stage.Skipped, outcome.Status)
	assert.Contains(t, outcome.Reason, "signtool")
}

func TestSignInvokesResolvedTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub tool requires a POSIX shell")
	}
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pfx")
	require.NoError(t, os.WriteFile(cert, []byte("pfx"), 0o600))

	// Stub signtool that records its arguments.
	argsFile := filepath.Join(dir, "args.txt")
	stub := filepath.Join(dir, "signtool")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	s := &Signer{
		CertPath:     cert,
		CertPassword: "hunter2",
		Description:  "ClaraCore AI Inference Server",
		PublisherURL: "https://github.com/claraverse-space/ClaraCore",
		Resolver:     &tools.Resolver{Tool: "signtool", Explicit: stub},
	}
	outcome := s.Sign("claracore-windows-amd64.exe")
	require.Equal(t, stage.Succeeded, outcome.Status, "outcome: %s", outcome)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := string(recorded)
	assert.Contains(t, args, "/fd sha256")
	assert.Contains(t, args, "/td sha256")
	assert.Contains(t, args, "/tr http://timestamp.digicert.com")
	assert.Contains(t, args, "/d ClaraCore AI Inference Server")
	assert.Contains(t, args, "claracore-windows-amd64.exe")
}

func TestSignFailureIsNonFatal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub tool requires a POSIX shell")
	}
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pfx")
	require.NoError(t, os.WriteFile(cert, []byte("pfx"), 0o600))

	stub := filepath.Join(dir, "signtool")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\necho no token >&2\nexit 1\n"), 0o755))

	s := &Signer{
		CertPath: cert,
		Resolver: &tools.Resolver{Tool: "signtool", Explicit: stub},
	}
	outcome := s.Sign("claracore-windows-amd64.exe")
	assert.Equal(t, stage.Failed, outcome.Status)
	assert.Contains(t, outcome.Reason, "no token")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(CertPathEnv, "/certs/release.pfx")
	t.Setenv(CertPasswordEnv, "secret")

	s := FromEnv("desc", "https://example.com")
	assert.Equal(t, "/certs/release.pfx", s.CertPath)
	assert.Equal(t, "secret", s.CertPassword)
	assert.Equal(t, "desc", s.Description)
}
