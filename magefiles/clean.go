//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
)

// Clean namespace methods
// Note: Clean type is defined in main.go

// All removes all build artifacts
func (Clean) All() error {
	fmt.Println("Cleaning all build artifacts...")
	if err := os.RemoveAll("bin"); err != nil {
		return err
	}
	return os.RemoveAll("dist")
}

// Dist removes the release output directory
func (Clean) Dist() error {
	fmt.Println("Cleaning release output...")
	return os.RemoveAll("dist")
}

// Coverage removes coverage files
func (Clean) Coverage() error {
	fmt.Println("Cleaning coverage files...")
	os.Remove("coverage.out")
	os.Remove("coverage.html")
	return nil
}
