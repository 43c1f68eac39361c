//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Import runs a conversion over the Input folder with the built binary.
func Import() error {
	cmd := exec.Command(filepath.Join(binDir, binName), "run")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
