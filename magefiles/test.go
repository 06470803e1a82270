//go:build mage
// +build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/sh"
)

// Test namespace methods
// Note: Test type is defined in main.go

// Unit runs the unit tests
func (Test) Unit() error {
	fmt.Println("Running unit tests...")
	return sh.RunV("go", "test", "./pkg/...", "./internal/...")
}

// Race runs the unit tests with the race detector
func (Test) Race() error {
	fmt.Println("Running unit tests with the race detector...")
	return sh.RunV("go", "test", "-race", "./pkg/...", "./internal/...")
}

// Coverage runs the unit tests with coverage reporting
func (Test) Coverage() error {
	fmt.Println("Running unit tests with coverage...")
	if err := sh.RunV(
		"go", "test", "-coverprofile=coverage.out", "./pkg/...", "./internal/...",
	); err != nil {
		return err
	}
	return sh.Run("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}
