package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "cbind.toml", `
[output]
package = "econfbindings"
library = "econf"

[types]
device_serial_number_t = "uint32_t"
win_handle_t = "uintptr_t"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Output.Package != "econfbindings" {
		t.Errorf("Output.Package = %q, want econfbindings", c.Output.Package)
	}
	if c.Output.Library != "econf" {
		t.Errorf("Output.Library = %q, want econf", c.Output.Library)
	}
	if got := c.Types["device_serial_number_t"]; got != "uint32_t" {
		t.Errorf("Types[device_serial_number_t] = %q, want uint32_t", got)
	}
	if got := c.Types["win_handle_t"]; got != "uintptr_t" {
		t.Errorf("Types[win_handle_t] = %q, want uintptr_t", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.toml", "")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Output.Package != "" || c.Output.Library != "" || len(c.Types) != 0 {
		t.Errorf("empty file should yield zero config, got %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, "bad.toml", "[output\npackage = ")

	if _, err := Load(path); err == nil {
		t.Fatal("Load should fail for malformed TOML")
	}
}
