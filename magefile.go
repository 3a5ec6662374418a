//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "sheetxlate"
	mainPath   = "./cmd/sheetxlate"
)

// Default target to run when none is specified
var Default = Build

// Build builds the sheetxlate binary
func Build() error {
	fmt.Println("Building", binaryName)
	return sh.RunV("go", "build", "-o", binaryName, mainPath)
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", mainPath)
}

// Test runs all tests with the race detector
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Integration runs the tests that call the real endpoint
func Integration() error {
	if os.Getenv("DEEPSEEK_API_KEY") == "" {
		return fmt.Errorf("DEEPSEEK_API_KEY is required for integration tests")
	}
	return sh.RunV("go", "test", "-run", "Integration", "./...")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binaryName)
}
