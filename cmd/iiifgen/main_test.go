package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig creates a config file whose paths all live under a
// temp directory so tests never touch the user's home.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
output_dir = %q
mets_cache_dir = %q
ledger_path = %q
log_dir = %q

[iiif]
collections_base_url = "https://data.example.org/collections/"
manifests_base_url = "https://data.example.org/manifests/"

[mets]
base_url = "https://service.example.org/mets/"
`,
		filepath.Join(base, "out"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "ledger.db"),
		filepath.Join(base, "logs"),
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output %q does not contain %q", output, want)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config file")
	}

	// With --overwrite the edited file is replaced by a fresh sample.
	if err := os.WriteFile(target, []byte("# edited\n"), 0o644); err != nil {
		t.Fatalf("seed edited config: %v", err)
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "# edited") {
		t.Error("edited config should have been replaced")
	}
	if !strings.Contains(string(data), "[mets]") {
		t.Errorf("replaced config should be the sample: %q", data)
	}
}

func TestStatusWithEmptyLedger(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestScansListWithEmptyCache(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "scans", "list")
	if err != nil {
		t.Fatalf("scans list: %v", err)
	}
	requireContains(t, out, "Cache is empty")
}

func TestGenerateRequiresArgument(t *testing.T) {
	cfgPath := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfgPath, "generate"); err == nil {
		t.Fatal("expected error for missing ead file argument")
	}
}
