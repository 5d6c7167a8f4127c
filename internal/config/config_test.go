package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/netlist"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ascgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	cc, err := cfg.CircuitConfig()
	if err != nil {
		t.Fatalf("CircuitConfig failed: %v", err)
	}
	if cc.GridSize != 10 || cc.GridUnit != 64 || cc.LabelPolicy != netlist.LabelReject {
		t.Errorf("Unexpected defaults %+v", cc)
	}

	reg, err := cfg.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if reg.Policy() != registry.Overwrite {
		t.Error("Expected overwrite registry policy")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
grid:
  size: 16
labels: overwrite
registry: strict
components:
  - name: diode
    prefix: D
    kind: two-terminal
    pins:
      - {name: anode, x: 16, y: 0}
      - {name: cathode, x: 16, y: 64}
`)

	cfg, gotPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if gotPath != path {
		t.Errorf("Expected path %s, got %s", path, gotPath)
	}
	if cfg.Grid.Size != 16 || cfg.Grid.Unit != 64 {
		t.Errorf("Expected grid 16 with default unit, got %+v", cfg.Grid)
	}

	cc, err := cfg.CircuitConfig()
	if err != nil {
		t.Fatalf("CircuitConfig failed: %v", err)
	}
	if cc.LabelPolicy != netlist.LabelOverwrite {
		t.Error("Expected overwrite label policy")
	}

	reg, err := cfg.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	def, err := reg.Lookup("diode")
	if err != nil {
		t.Fatalf("Expected diode type: %v", err)
	}
	if def.Symbol != "diode" || def.Kind != registry.KindTwoTerminal {
		t.Errorf("Unexpected definition %+v", def)
	}
	if p, _ := def.Pin("cathode"); p.Offset != geom.Pt(16, 64) {
		t.Errorf("Unexpected cathode offset %v", p.Offset)
	}
}

func TestNewRegistryStrictRejectsBuiltinOverride(t *testing.T) {
	path := writeConfig(t, `
registry: strict
components:
  - name: res
    pins:
      - {name: a, x: 0, y: 0}
`)
	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if _, err := cfg.NewRegistry(); !errors.Is(err, registry.ErrDuplicateType) {
		t.Errorf("Expected ErrDuplicateType, got %v", err)
	}

	cfg.Registry = "overwrite"
	reg, err := cfg.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if def, _ := reg.Lookup("res"); len(def.Pins) != 1 {
		t.Error("Expected the configured res to replace the built-in")
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"label policy", Config{Grid: GridConfig{Size: 10, Unit: 64}, Labels: "merge", Registry: "overwrite"}},
		{"negative grid", Config{Grid: GridConfig{Size: -1, Unit: 64}, Labels: "reject", Registry: "overwrite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.CircuitConfig(); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	bad := DefaultConfig()
	bad.Registry = "lenient"
	if _, err := bad.NewRegistry(); err == nil {
		t.Error("Expected an error for an unknown registry policy")
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, _, err := LoadFromPath(writeConfig(t, "grid: [1, 2")); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Size = 12
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Grid != cfg.Grid || loaded.Labels != cfg.Labels || loaded.Registry != cfg.Registry {
		t.Errorf("Round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}

func TestFindConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "grid: {size: 8}\n")
	t.Setenv(EnvConfigPath, path)

	if got := FindConfigPath(); got != path {
		t.Errorf("Expected %s, got %s", path, got)
	}

	cfg, got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != path || cfg.Grid.Size != 8 {
		t.Errorf("Unexpected load result %s %+v", got, cfg.Grid)
	}
}

func TestFindProjectConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(want, []byte("grid: {size: 8}\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	deep := filepath.Join(root, "designs", "filters")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if got := findProjectConfig(deep); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if got := findProjectConfig(t.TempDir()); got != "" {
		t.Errorf("Expected no config, got %s", got)
	}
}

func TestFindConfigPathUserDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on Linux")
	}
	home := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", home)

	want := filepath.Join(home, ConfigDirName, "config.yaml")
	if got := UserConfigPath(); got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}
	if err := DefaultConfig().Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if wd, _ := os.Getwd(); findProjectConfig(wd) != "" {
		t.Skip("an ascgen.yaml above the working directory takes precedence")
	}
	if got := FindConfigPath(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
