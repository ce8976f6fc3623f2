//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the binary and runs the testbed from the repository root.
func (Run) Engine() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run engine...")
	if _, err := executeCmd("./bin/maze-particles", withArgs("-config", "engine.toml"), withDir("."), withStream()); err != nil {
		return err
	}
	return nil
}
