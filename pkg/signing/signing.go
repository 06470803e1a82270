// Package signing applies an Authenticode signature to Windows binaries.
//
// Signing is best effort: a missing certificate, a missing signing tool,
// or a failed signing command degrades to shipping the binary unsigned.
// A missing signature reduces trust but does not break functionality, so
// the pipeline never fails over it.
package signing

import (
	"os"
	"os/exec"
	"strings"

	"github.com/claraverse-space/clara-release/pkg/stage"
	"github.com/claraverse-space/clara-release/pkg/tools"
)

// Environment variables the signer reads its certificate from.
const (
	CertPathEnv     = "SIGN_CERT_PATH"
	CertPasswordEnv = "SIGN_CERT_PASSWORD"
)

// timestampServer is the RFC 3161 timestamp authority.
const timestampServer = "http://timestamp.digicert.com"

// signtoolFallbacks are well-known Windows SDK installation paths probed
// when signtool is not on PATH.
var signtoolFallbacks = []string{
	`C:\Program Files (x86)\Windows Kits\10\bin\x64\signtool.exe`,
	`C:\Program Files (x86)\Windows Kits\10\bin\10.0.22621.0\x64\signtool.exe`,
	`C:\Program Files (x86)\Windows Kits\10\bin\x86\signtool.exe`,
}

// Signer signs produced Windows binaries.
type Signer struct {
	// CertPath is the certificate file; empty disables signing.
	CertPath string
	// CertPassword unlocks the certificate; may be empty.
	CertPassword string
	// Description is embedded as the signed product description.
	Description string
	// PublisherURL is embedded as the publisher link.
	PublisherURL string
	// Resolver locates signtool. A zero value probes PATH and the fixed
	// SDK paths.
	Resolver *tools.Resolver
}

// FromEnv builds a Signer from the operator's environment configuration.
func FromEnv(description, publisherURL string) *Signer {
	return &Signer{
		CertPath:     os.Getenv(CertPathEnv),
		CertPassword: os.Getenv(CertPasswordEnv),
		Description:  description,
		PublisherURL: publisherURL,
	}
}

func (s *Signer) resolver() *tools.Resolver {
	if s.Resolver != nil {
		return s.Resolver
	}
	return &tools.Resolver{
		Tool:      "signtool",
		Names:     []string{"signtool", "signtool.exe"},
		Fallbacks: signtoolFallbacks,
		Hint:      "install the Windows SDK",
	}
}

// Sign signs binaryPath. Only .exe binaries are eligible; everything that
// keeps the binary unsigned is reported as Skipped or Failed, never as a
// pipeline error.
func (s *Signer) Sign(binaryPath string) stage.Outcome {
	if !strings.HasSuffix(binaryPath, ".exe") {
		return stage.Skip("not a Windows binary")
	}

	if s.CertPath == "" {
		return stage.Skip("no code signing certificate configured (set %s); binary ships unsigned", CertPathEnv)
	}
	if _, err := os.Stat(s.CertPath); err != nil {
		return stage.Skip("certificate %s not found; binary ships unsigned", s.CertPath)
	}

	signtool, err := s.resolver().Resolve()
	if err != nil {
		return stage.Skip("%v; binary ships unsigned", err)
	}

	args := []string{
		"sign",
		"/f", s.CertPath,
		"/p", s.CertPassword,
		"/tr", timestampServer,
		"/td", "sha256",
		"/fd", "sha256",
		"/d", s.Description,
		"/du", s.PublisherURL,
		binaryPath,
	}

	cmd := exec.Command(signtool, args...) // #nosec G204 -- resolved tool with fixed arguments
	if out, err := cmd.CombinedOutput(); err != nil {
		return stage.Fail("signing failed: %v (output: %s)", err, strings.TrimSpace(string(out)))
	}

	return stage.Succeed()
}
