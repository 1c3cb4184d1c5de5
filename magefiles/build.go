//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for courtside using Mage.
//
//	mage build             Compile the courtside binary to bin/
//	mage install           Install courtside to GOPATH/bin
//	mage clean             Remove build artifacts
//	mage lint              Run go vet and golangci-lint
//	mage test:all          Run unit and integration tests
//	mage test:unit         Run unit tests only
//	mage test:integration  Build, then run tests/integration
//	mage test:cover        Unit tests with a coverage profile
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "courtside"
	binaryDir  = "bin"
	cmdDir     = "./cmd/courtside"
)

// Build compiles the courtside binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts and coverage output.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
