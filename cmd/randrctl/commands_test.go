package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/randr"

	"randrd/internal/config"
	"randrd/internal/testsupport"
)

const validConfig = `
[monitors.a]
product = "PanelA"
serial = "A"

[layouts.solo]
monitors = ["a"]

[layouts.solo.outputs.a]
mode = "1920x1080"
position = "0x0"
primary = true
`

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckReportsValidConfig(t *testing.T) {
	path := writeConfig(t, validConfig)

	out, err := runCommand(t, "check", "-c", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "Layouts: 1") {
		t.Errorf("expected layout count in output, got %q", out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("expected validity line, got %q", out)
	}
}

func TestCheckRejectsUnknownMonitorReference(t *testing.T) {
	path := writeConfig(t, `
[layouts.bad]
monitors = ["ghost"]

[layouts.bad.outputs.ghost]
mode = "1920x1080"
`)

	if _, err := runCommand(t, "check", "-c", path); err == nil {
		t.Fatal("expected validation error for undeclared monitor")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sub", "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("expected target path in output, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if _, err := config.Parse(data); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestPrintEdidsRendersSnippet(t *testing.T) {
	f := testsupport.NewFakeClient()
	f.AddMode(100, 1920, 1080)
	f.AddCrtc(10)
	f.AddOutput(1, "eDP-1", []randr.Crtc{10}, []randr.Mode{100})
	f.AddOutput(2, "HDMI-1", nil, nil)
	f.OutputInfos[2].Connection = randr.ConnectionDisconnected
	f.EDIDs[1] = testsupport.EDIDBlock("PanelA", "SER1")

	var out bytes.Buffer
	if err := printEdids(&out, f, 1, 42); err != nil {
		t.Fatalf("printEdids: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "[monitors.eDP-1]") && !strings.Contains(got, "monitors.eDP-1") && !strings.Contains(got, "'eDP-1'") {
		t.Errorf("expected eDP-1 monitor table, got %q", got)
	}
	if !strings.Contains(got, "PanelA") || !strings.Contains(got, "SER1") {
		t.Errorf("expected identity fields, got %q", got)
	}
	if strings.Contains(got, "HDMI-1") {
		t.Errorf("disconnected output must not appear, got %q", got)
	}
}

func TestPrintEdidsWithoutMonitors(t *testing.T) {
	f := testsupport.NewFakeClient()

	var out bytes.Buffer
	if err := printEdids(&out, f, 1, 42); err != nil {
		t.Fatalf("printEdids: %v", err)
	}
	if !strings.HasPrefix(out.String(), "#") {
		t.Errorf("expected comment placeholder, got %q", out.String())
	}
}

func TestCollectOutputRows(t *testing.T) {
	f := testsupport.NewFakeClient()
	f.AddMode(100, 1920, 1080)
	f.AddCrtc(10)
	f.AddOutput(1, "eDP-1", []randr.Crtc{10}, []randr.Mode{100})
	f.AddOutput(2, "HDMI-1", nil, nil)
	f.OutputInfos[2].Connection = randr.ConnectionDisconnected
	f.EDIDs[1] = testsupport.EDIDBlock("PanelA", "SER1")
	f.Bind(1, 10, 0, 0, 100)

	rows, err := collectOutputRows(f, 1, 42)
	if err != nil {
		t.Fatalf("collectOutputRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	active := rows[0]
	if active.Name != "eDP-1" || active.Status != "connected" {
		t.Errorf("unexpected first row: %+v", active)
	}
	if active.Product != "PanelA" || active.Serial != "SER1" {
		t.Errorf("expected identity on first row: %+v", active)
	}
	if active.Crtc != "10" || active.Geometry != "1920x1080+0+0" {
		t.Errorf("expected live geometry on first row: %+v", active)
	}

	idle := rows[1]
	if idle.Status != "disconnected" || idle.Crtc != "-" || idle.Geometry != "-" {
		t.Errorf("unexpected second row: %+v", idle)
	}
}
