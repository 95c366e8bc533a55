//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and lists the accessions the default query matches.
func Search() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "search")
}

// Run builds the CLI and performs a full fetch into output/.
func Run() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "--output-dir", outputDir)
}
