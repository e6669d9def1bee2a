//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "signopsis"

// Default target to run when none is specified
var Default = Build

// Build builds the signopsis binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/signopsis")
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs signopsis into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/signopsis")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(filepath.Join(".", binary))
}

// Dev builds and starts the transcribe server with verbose logging
func Dev() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{"SIGNOPSIS_LOG_VERBOSE": "true"}, "./"+binary, "serve")
}
