//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the testbed binary into bin/.
func (Build) Binary() error {
	if err := goModDownload(); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", "bin/maze-particles", "."), withStream())
	return err
}

// Runs the unit tests of every package.
func (Build) Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs go vet over every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
