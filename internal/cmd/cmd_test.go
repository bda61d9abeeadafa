package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

const testConfig = `
splash:
  target_ms: 40
  min_ms: 20
  max_ms: 2000
  reveal_ms: 10
  frame_ms: 2
preload:
  timeout_ms: 1000
network:
  enabled: false
logging:
  enabled: false
site:
  style: notty
  manifest: %MANIFEST%
`

const testManifest = `
owner:
  name: Test Owner
sections:
  - id: about
    title: About
    nav: About
    critical: true
    body: |
      ## About

      Hello.
assets:
  - locator: logo.png
    kind: image
    critical: true
  - locator: missing.pdf
    kind: document
    critical: false
`

// writeSite writes a config and a manifest into a temp dir and returns the
// config path.
func writeSite(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	manifest := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(manifest, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "config.yaml")
	body := strings.ReplaceAll(config, "%MANIFEST%", manifest)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "folio" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "folio")
	}

	cmdMap := make(map[string]*cobra.Command)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = c
	}
	for _, expected := range []string{"warmup", "config"} {
		if cmdMap[expected] == nil {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}

	sub := make(map[string]bool)
	for _, c := range configCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, expected := range []string{"show", "validate", "path"} {
		if !sub[expected] {
			t.Errorf("expected config subcommand %q not found", expected)
		}
	}
}

func TestConfigPath(t *testing.T) {
	path := writeSite(t, testConfig)

	output, err := executeCommand(rootCmd, "config", "path", "--config", path)
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(output, "Active config: "+path) {
		t.Errorf("output missing the active config:\n%s", output)
	}
	if !strings.Contains(output, "FOLIO_") {
		t.Errorf("output missing the env prefix:\n%s", output)
	}
}

func TestConfigShow(t *testing.T) {
	path := writeSite(t, testConfig)

	output, err := executeCommand(rootCmd, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	for _, want := range []string{"min_ms: 20", "style: notty", "enter_ms: 600", "site.yaml"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr bool
		want    string
	}{
		{
			name:   "valid",
			config: testConfig,
			want:   "manifest: ok (1 sections, 0 projects, 2 assets)",
		},
		{
			name:    "bad metrics addr",
			config:  testConfig + "\n" + "metrics:\n  enabled: true\n  addr: nope\n",
			wantErr: true,
			want:    "metrics.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSite(t, tt.config)
			output, err := executeCommand(rootCmd, "config", "validate", "--config", path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("config validate error = %v, wantErr %v\n%s", err, tt.wantErr, output)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, output)
			}
		})
	}
}

func TestConfigValidate_BadManifest(t *testing.T) {
	path := writeSite(t, testConfig)
	manifest := filepath.Join(filepath.Dir(path), "site.yaml")
	if err := os.WriteFile(manifest, []byte("owner:\n  name: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := executeCommand(rootCmd, "config", "validate", "--config", path)
	if err == nil {
		t.Fatalf("config validate accepted an invalid manifest:\n%s", output)
	}
	if !strings.Contains(output, "owner.name") {
		t.Errorf("output missing the owner.name problem:\n%s", output)
	}
}

func TestWarmup(t *testing.T) {
	path := writeSite(t, testConfig)

	output, err := executeCommand(rootCmd, "warmup", "--config", path)
	if err != nil {
		t.Fatalf("warmup failed: %v\n%s", err, output)
	}
	for _, want := range []string{"phase done", "failed document", "missing.pdf", "3/4 resources loaded"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	output, err = executeCommand(rootCmd, "warmup", "--config", path, "--strict", "--quiet")
	if err == nil {
		t.Fatalf("warmup --strict succeeded with a failed resource:\n%s", output)
	}
	if strings.Contains(output, "loading") {
		t.Errorf("--quiet still printed progress:\n%s", output)
	}
	warmupStrict, warmupQuiet = false, false
}
