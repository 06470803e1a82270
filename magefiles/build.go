//go:build mage
// +build mage

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// Build namespace methods
// Note: Build type is defined in main.go

// ldflags stamps the version variables into the binary
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "none"
	}
	date := time.Now().UTC().Format("2006-01-02T15:04:05Z")

	return strings.Join([]string{
		fmt.Sprintf("-X main.version=%s", version),
		fmt.Sprintf("-X main.commit=%s", commit),
		fmt.Sprintf("-X main.date=%s", date),
	}, " ")
}

// Binary builds the main binary
func (Build) Binary() error {
	fmt.Println("Building clara-release...")
	return sh.Run("go", "build", "-ldflags", ldflags(), "-o", "bin/clara-release", "./cmd/clara-release")
}

// Install installs the binary to $GOPATH/bin
func (Build) Install() error {
	fmt.Println("Installing clara-release...")
	return sh.Run("go", "install", "-ldflags", ldflags(), "./cmd/clara-release")
}

// Debug builds with debug flags
func (Build) Debug() error {
	fmt.Println("Building clara-release with debug flags...")
	return sh.Run(
		"go",
		"build",
		"-gcflags",
		"all=-N -l",
		"-o",
		"bin/clara-release-debug",
		"./cmd/clara-release",
	)
}
