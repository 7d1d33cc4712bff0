// Package sysapply applies the selected endpoint to the system
// configuration: nameserver lines in /etc/resolv.conf for DNS resolvers,
// the registry-mirrors key in /etc/docker/daemon.json for mirrors.
//
// Both appliers follow a backup-then-overwrite discipline with an explicit
// verification step after the write. On failure the previous configuration
// is restored, so an apply failure never leaves the system in a state
// different from the one it started in.
package sysapply

import (
	"os"

	"github.com/dockpick/dockpick/internal/shellx"
	"github.com/pkg/errors"
)

// ErrNotRoot indicates the process lacks the privileges to modify the
// system configuration.
var ErrNotRoot = errors.New("sysapply: root privileges required")

// geteuid is os.Geteuid, replaceable in tests.
var geteuid = os.Geteuid

// CheckRoot fails unless the process runs with an effective UID of zero.
func CheckRoot() error {
	if geteuid() != 0 {
		return ErrNotRoot
	}
	return nil
}

// CheckDockerRunning fails unless docker is installed and the daemon
// answers. Registry probing is pointless otherwise.
func CheckDockerRunning() error {
	if err := shellx.RunQuiet("docker", "--version"); err != nil {
		return errors.Wrap(err, "docker is not installed")
	}
	if _, err := shellx.OutputQuiet("docker", "info"); err != nil {
		return errors.Wrap(err, "docker daemon is not running")
	}
	return nil
}
