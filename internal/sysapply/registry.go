package sysapply

import (
	"encoding/json"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/shellx"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// defaultDaemonJSONPath is where the docker daemon configuration lives.
const defaultDaemonJSONPath = "/etc/docker/daemon.json"

// defaultRestartWait is how long we wait for the daemon after a restart.
const defaultRestartWait = 5 * time.Second

// smokeTestImage is pulled through the new mirror after a successful apply.
const smokeTestImage = "hello-world:latest"

// RegistryApplier merges the chosen mirror into the docker daemon
// configuration, restarts the daemon, and verifies it is healthy.
//
// The zero value targets /etc/docker/daemon.json and drives docker through
// systemctl; tests override the path, the sleep, and [shellx.Library].
type RegistryApplier struct {
	// Logger is the OPTIONAL logger.
	Logger model.Logger

	// Path OPTIONALLY overrides the daemon configuration path.
	Path string

	// RestartWait OPTIONALLY overrides the post-restart wait.
	RestartWait time.Duration

	// Sleep OPTIONALLY overrides time.Sleep.
	Sleep func(d time.Duration)
}

func (a *RegistryApplier) path() string {
	if a.Path != "" {
		return a.Path
	}
	return defaultDaemonJSONPath
}

func (a *RegistryApplier) sleep(d time.Duration) {
	if a.Sleep != nil {
		a.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (a *RegistryApplier) restartWait() time.Duration {
	if a.RestartWait > 0 {
		return a.RestartWait
	}
	return defaultRestartWait
}

// MergeDaemonConfig merges the chosen mirror into an existing daemon
// configuration, preserving unrelated keys. Unparseable existing content is
// treated as an empty configuration, like dockerd tolerates a missing file.
func MergeDaemonConfig(existing []byte, mirror string, insecure bool) ([]byte, error) {
	config := map[string]interface{}{}
	if len(existing) > 0 {
		if std, err := hujson.Standardize(existing); err == nil {
			_ = json.Unmarshal(std, &config)
		}
	}

	config["registry-mirrors"] = []string{mirror}

	if insecure {
		registries := []string{}
		if prev, ok := config["insecure-registries"].([]interface{}); ok {
			for _, entry := range prev {
				if s, ok := entry.(string); ok {
					registries = append(registries, s)
				}
			}
		}
		found := false
		for _, entry := range registries {
			if entry == mirror {
				found = true
			}
		}
		if !found {
			registries = append(registries, mirror)
		}
		config["insecure-registries"] = registries
	}

	return json.MarshalIndent(config, "", "  ")
}

// Apply persists the mirror into the daemon configuration, restarts docker,
// and verifies the daemon answers. On restart or verification failure the
// previous configuration file is restored before returning the error.
func (a *RegistryApplier) Apply(mirror string, insecure bool) error {
	path := a.path()
	backup := path + ".backup"

	existing, readErr := os.ReadFile(path)
	hadConfig := readErr == nil
	if readErr != nil && !errors.Is(readErr, fs.ErrNotExist) {
		// never overwrite a config we could not read
		return errors.Wrap(readErr, "cannot read daemon configuration")
	}
	if hadConfig {
		if err := shellx.CopyFile(path, backup, 0644); err != nil {
			return errors.Wrap(err, "cannot back up daemon configuration")
		}
	}

	merged, err := MergeDaemonConfig(existing, mirror, insecure)
	if err != nil {
		return errors.Wrap(err, "cannot merge daemon configuration")
	}
	if err := os.WriteFile(path, merged, 0644); err != nil {
		a.restore(hadConfig, backup, path)
		return errors.Wrap(err, "cannot write daemon configuration")
	}

	if err := shellx.RunCommandLine(a.Logger, "systemctl restart docker"); err != nil {
		a.restore(hadConfig, backup, path)
		return errors.Wrap(err, "cannot restart docker")
	}

	a.sleep(a.restartWait())

	if _, err := shellx.OutputQuiet("docker", "info"); err != nil {
		a.restore(hadConfig, backup, path)
		_ = shellx.RunCommandLine(a.Logger, "systemctl restart docker")
		return errors.Wrap(err, "docker failed to start with the new configuration")
	}

	if a.Logger != nil {
		a.Logger.Infof("docker daemon now using registry mirror %s", mirror)
	}
	a.smokeTest()
	return nil
}

// smokeTest pulls a small image through the newly configured mirror and
// removes it again. A failed pull is reported but does not fail the apply:
// the daemon is healthy and the configuration is in place.
func (a *RegistryApplier) smokeTest() {
	if err := shellx.Run(a.Logger, "docker", "pull", smokeTestImage); err != nil {
		if a.Logger != nil {
			a.Logger.Warnf("mirror smoke test failed: %s", err)
		}
		return
	}
	_ = shellx.RunQuiet("docker", "rmi", smokeTestImage)
}

// restore puts the previous daemon configuration back in place.
func (a *RegistryApplier) restore(hadConfig bool, backup, path string) {
	if hadConfig {
		_ = shellx.CopyFile(backup, path, 0644)
		return
	}
	_ = os.Remove(path)
}

// CurrentRegistryMirrors returns the mirrors the running daemon reports in
// its `docker info` output, so the operator can see what a new selection
// would replace.
func CurrentRegistryMirrors() ([]string, error) {
	out, err := shellx.OutputQuiet("docker", "info")
	if err != nil {
		return nil, errors.Wrap(err, "cannot read current docker configuration")
	}
	return parseRegistryMirrors(string(out)), nil
}

// parseRegistryMirrors extracts the "Registry Mirrors:" section: the
// indented URL lines that follow the header, up to the next top-level key.
func parseRegistryMirrors(info string) []string {
	mirrors := []string{}
	lines := strings.Split(info, "\n")
	for idx, line := range lines {
		if !strings.Contains(line, "Registry Mirrors:") {
			continue
		}
		for _, next := range lines[idx+1:] {
			trimmed := strings.TrimSpace(next)
			if strings.HasPrefix(trimmed, "http") {
				mirrors = append(mirrors, trimmed)
				continue
			}
			if trimmed != "" && !strings.HasPrefix(next, " ") {
				break
			}
		}
		break
	}
	return mirrors
}
