package sysapply

import (
	"context"
	"os"

	"github.com/dockpick/dockpick/internal/model"
	"github.com/dockpick/dockpick/internal/probe"
	"github.com/dockpick/dockpick/internal/shellx"
	"github.com/pkg/errors"
)

// defaultResolvConfPath is where the system resolver configuration lives.
const defaultResolvConfPath = "/etc/resolv.conf"

// verifyDomain is resolved through the new configuration after the write.
const verifyDomain = "google.com"

// DNSApplier writes nameserver lines to the resolver configuration.
//
// The zero value targets /etc/resolv.conf and verifies by re-resolving a
// well-known domain against the chosen resolver.
type DNSApplier struct {
	// Logger is the OPTIONAL logger.
	Logger model.Logger

	// Path OPTIONALLY overrides the resolver configuration path.
	Path string

	// Verify OPTIONALLY overrides post-write verification.
	Verify func(primary string) error
}

func (a *DNSApplier) path() string {
	if a.Path != "" {
		return a.Path
	}
	return defaultResolvConfPath
}

func (a *DNSApplier) verify() func(primary string) error {
	if a.Verify != nil {
		return a.Verify
	}
	return func(primary string) error {
		prober := &probe.DNSProber{}
		result := prober.Probe(context.Background(), primary, verifyDomain, probe.DefaultDNSTimeout)
		if !result.Success {
			return errors.Errorf("cannot resolve %s through %s", verifyDomain, primary)
		}
		return nil
	}
}

// RenderResolvConf renders the resolver configuration content: exactly two
// nameserver lines, or one when there is no secondary address.
func RenderResolvConf(primary, secondary string) string {
	content := "nameserver " + primary + "\n"
	if secondary != "" {
		content += "nameserver " + secondary + "\n"
	}
	return content
}

// Apply backs up the current resolver configuration, overwrites it with
// the given nameservers, and verifies that resolution works through the new
// primary. Failure to back up leaves the existing configuration untouched;
// failed verification restores the backup.
func (a *DNSApplier) Apply(primary, secondary string) error {
	path := a.path()
	backup := path + ".backup"

	if err := shellx.CopyFile(path, backup, 0644); err != nil {
		return errors.Wrap(err, "cannot back up resolver configuration")
	}
	if a.Logger != nil {
		a.Logger.Debugf("backed up %s to %s", path, backup)
	}

	content := RenderResolvConf(primary, secondary)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		_ = shellx.CopyFile(backup, path, 0644)
		return errors.Wrap(err, "cannot write resolver configuration")
	}

	if err := a.verify()(primary); err != nil {
		_ = shellx.CopyFile(backup, path, 0644)
		return errors.Wrap(err, "resolver verification failed")
	}

	if a.Logger != nil {
		a.Logger.Infof("resolver configuration applied: primary %s", primary)
		if secondary != "" {
			a.Logger.Infof("resolver configuration applied: secondary %s", secondary)
		}
	}
	return nil
}
