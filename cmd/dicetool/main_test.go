package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestCmdRoll(t *testing.T) {
	var out bytes.Buffer
	if err := cmdRoll(&out, []string{"-seed", "42", "3d6"}); err != nil {
		t.Fatalf("cmdRoll: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 results and a total, got:\n%s", out.String())
	}
	sum := 0
	for _, l := range lines[:3] {
		f := strings.Fields(l)
		v, err := strconv.Atoi(f[len(f)-1])
		if err != nil || v < 1 || v > 6 {
			t.Errorf("bad result line %q", l)
		}
		sum += v
	}
	if want := "Total: " + strconv.Itoa(sum); lines[3] != want {
		t.Errorf("total line %q, want %q", lines[3], want)
	}
}

func TestCmdRollPreset(t *testing.T) {
	var out bytes.Buffer
	if err := cmdRoll(&out, []string{"-seed", "3", "-preset", "D&D Attack"}); err != nil {
		t.Fatalf("cmdRoll: %v", err)
	}
	if !strings.Contains(out.String(), "d20") || !strings.Contains(out.String(), "d8") {
		t.Errorf("expected d20 and d8 results, got:\n%s", out.String())
	}
}

func TestCmdRollErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no pool", nil},
		{"bad pool", []string{"2d7"}},
		{"unknown preset", []string{"-preset", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := cmdRoll(&out, tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCmdInfo(t *testing.T) {
	var out bytes.Buffer
	if err := cmdInfo(&out, []string{"d10", "d6"}); err != nil {
		t.Fatalf("cmdInfo: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "d10") || !strings.Contains(s, "hull/12") || !strings.Contains(s, "box/8") {
		t.Errorf("unexpected info output:\n%s", s)
	}
	if err := cmdInfo(&out, []string{"d3"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestCmdExport(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if err := cmdExport(&out, []string{"-o", dir, "-size", "32", "d8", "d20"}); err != nil {
		t.Fatalf("cmdExport: %v", err)
	}
	for _, name := range []string{"d8.glb", "d20.glb"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, []byte("glTF")) {
			t.Errorf("%s is not binary glTF", name)
		}
	}
	if err := cmdExport(&out, nil); !errors.Is(err, errUsage) {
		t.Errorf("cmdExport() = %v, want usage error", err)
	}
}

func TestCmdFaces(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	if err := cmdFaces(&out, []string{"-o", dir, "-size", "32", "d4"}); err != nil {
		t.Fatalf("cmdFaces: %v", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "d4_face*.png"))
	if err != nil || len(files) != 4 {
		t.Errorf("expected 4 textures, got %v (%v)", files, err)
	}

	// Each face turned to the reading direction reads its own value.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	for _, l := range lines[1:5] {
		f := strings.Fields(l)
		if f[1] != f[len(f)-1] {
			t.Errorf("face line %q reads a different value", l)
		}
	}
}

func TestCmdPresets(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("presets:\n  - name: Fireball\n    dice: 8d6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := cmdPresets(&out, []string{"-config", cfgPath}); err != nil {
		t.Fatalf("cmdPresets: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Yahtzee") || !strings.Contains(s, "5d6") {
		t.Errorf("missing built-in preset:\n%s", s)
	}
	if !strings.Contains(s, "Fireball") || !strings.Contains(s, "8d6") {
		t.Errorf("missing user preset:\n%s", s)
	}
}

func TestParseTypes(t *testing.T) {
	all, err := parseTypes([]string{"all"})
	if err != nil || len(all) != 6 {
		t.Errorf("parseTypes(all) = %v, %v", all, err)
	}
	if _, err := parseTypes([]string{"d6", "x"}); err == nil {
		t.Error("expected error")
	}
}
