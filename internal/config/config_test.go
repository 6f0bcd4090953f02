package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_ValidFull(t *testing.T) {
	yaml := `
store:
  path: build/sigs.db
serve:
  listen: 0.0.0.0:9000
check:
  json: true
  color: never
fmt:
  indent: 2
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Path != "build/sigs.db" {
		t.Errorf("store.path = %q, want build/sigs.db", cfg.Store.Path)
	}
	if cfg.Serve.Listen != "0.0.0.0:9000" {
		t.Errorf("serve.listen = %q, want 0.0.0.0:9000", cfg.Serve.Listen)
	}
	if !cfg.Check.JSON {
		t.Error("expected check.json true")
	}
	if cfg.Check.Color != ColorNever {
		t.Errorf("check.color = %q, want never", cfg.Check.Color)
	}
	if cfg.Fmt.Indent != 2 {
		t.Errorf("fmt.indent = %d, want 2", cfg.Fmt.Indent)
	}
}

func TestParseConfig_DefaultsApplied(t *testing.T) {
	cfg, err := ParseConfig([]byte("store: {}\n"), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Path != DefaultStorePath {
		t.Errorf("store.path = %q, want %q", cfg.Store.Path, DefaultStorePath)
	}
	if cfg.Serve.Listen != DefaultListenAddr {
		t.Errorf("serve.listen = %q, want %q", cfg.Serve.Listen, DefaultListenAddr)
	}
	if cfg.Check.Color != ColorAuto {
		t.Errorf("check.color = %q, want auto", cfg.Check.Color)
	}
	if cfg.Fmt.Indent != DefaultFmtIndent {
		t.Errorf("fmt.indent = %d, want %d", cfg.Fmt.Indent, DefaultFmtIndent)
	}
}

func TestParseConfig_InvalidColor(t *testing.T) {
	_, err := ParseConfig([]byte("check:\n  color: rainbow\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected an error for invalid color mode")
	}
	if !strings.Contains(err.Error(), "check.color") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseConfig_InvalidIndent(t *testing.T) {
	_, err := ParseConfig([]byte("fmt:\n  indent: 40\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected an error for out of range indent")
	}
}

func TestParseConfig_InvalidListen(t *testing.T) {
	_, err := ParseConfig([]byte("serve:\n  listen: localhost\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected an error for listen address without a port")
	}
}

func TestParseConfig_Malformed(t *testing.T) {
	_, err := ParseConfig([]byte("check: [unclosed"), "test.yaml")
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(cfgPath, []byte("check:\n  color: always\n"), 0644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != cfgPath {
		t.Errorf("found %q, want %q", found, cfgPath)
	}
}

func TestFindConfig_NotFound(t *testing.T) {
	found, err := FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Errorf("expected empty path, got %q", found)
	}
}

func TestLoad_NoConfigUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Path != DefaultStorePath || cfg.Check.Color != ColorAuto {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_StorePathRelativeToConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("store:\n  path: data/sigs.db\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "sub")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "data", "sigs.db")
	if cfg.Store.Path != want {
		t.Errorf("store.path = %q, want %q", cfg.Store.Path, want)
	}
}
