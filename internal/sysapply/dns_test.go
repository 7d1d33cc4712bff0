package sysapply

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderResolvConf(t *testing.T) {
	t.Run("primary and secondary", func(t *testing.T) {
		got := RenderResolvConf("8.8.8.8", "8.8.4.4")
		expect := "nameserver 8.8.8.8\nnameserver 8.8.4.4\n"
		if got != expect {
			t.Fatalf("got %q, want %q", got, expect)
		}
	})

	t.Run("primary only", func(t *testing.T) {
		got := RenderResolvConf("9.9.9.9", "")
		if got != "nameserver 9.9.9.9\n" {
			t.Fatalf("unexpected content %q", got)
		}
	})
}

func TestDNSApplierApply(t *testing.T) {
	setup := func(t *testing.T) (path string) {
		t.Helper()
		path = filepath.Join(t.TempDir(), "resolv.conf")
		if err := os.WriteFile(path, []byte("nameserver 127.0.0.53\n"), 0644); err != nil {
			t.Fatal(err)
		}
		return
	}

	t.Run("successful apply writes config and backup", func(t *testing.T) {
		path := setup(t)
		applier := &DNSApplier{
			Path:   path,
			Verify: func(primary string) error { return nil },
		}
		if err := applier.Apply("8.8.8.8", "8.8.4.4"); err != nil {
			t.Fatal(err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "nameserver 8.8.8.8\nnameserver 8.8.4.4\n" {
			t.Fatal("unexpected content", string(content))
		}
		backup, err := os.ReadFile(path + ".backup")
		if err != nil {
			t.Fatal(err)
		}
		if string(backup) != "nameserver 127.0.0.53\n" {
			t.Fatal("backup does not preserve previous config")
		}
	})

	t.Run("failed verification restores the backup", func(t *testing.T) {
		path := setup(t)
		applier := &DNSApplier{
			Path:   path,
			Verify: func(primary string) error { return errors.New("mocked error") },
		}
		if err := applier.Apply("8.8.8.8", ""); err == nil {
			t.Fatal("expected error")
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "nameserver 127.0.0.53\n" {
			t.Fatal("previous config not restored")
		}
	})

	t.Run("missing existing config leaves nothing behind", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resolv.conf")
		applier := &DNSApplier{
			Path:   path,
			Verify: func(primary string) error { return nil },
		}
		if err := applier.Apply("8.8.8.8", ""); err == nil {
			t.Fatal("expected backup error")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatal("target should not have been written")
		}
	})
}
