package main

import (
	"os"

	cp "github.com/otiai10/copy"
)

// prepareOutputDir recreates the output tree as a fresh copy of the input
// tree. Whatever a previous run left in the output directory is destroyed.
func prepareOutputDir(inputDir string, outputDir string) error {
	if err := os.RemoveAll(outputDir); err != nil {
		return err
	}

	return cp.Copy(inputDir, outputDir)
}
