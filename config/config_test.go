package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Grid.TileSize != 16 {
		t.Errorf("Grid.TileSize = %d, want 16", cfg.Grid.TileSize)
	}
	if cfg.FLIP.RKOrder != 2 {
		t.Errorf("FLIP.RKOrder = %d, want 2", cfg.FLIP.RKOrder)
	}
	if cfg.Derived.PICFLIP32 != float32(cfg.FLIP.PICFLIP) {
		t.Errorf("Derived.PICFLIP32 = %v, want %v", cfg.Derived.PICFLIP32, cfg.FLIP.PICFLIP)
	}
}

func TestLoadOverridesPartial(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/user.yaml"
	if err := writeFile(path, "grid:\n  tile_size: 32\n"); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}
	if cfg.Grid.TileSize != 32 {
		t.Errorf("Grid.TileSize = %d, want 32", cfg.Grid.TileSize)
	}
	// Fields the override file didn't mention keep their embedded defaults.
	if cfg.FLIP.RKOrder != 2 {
		t.Errorf("FLIP.RKOrder = %d, want 2 (unaffected by override)", cfg.FLIP.RKOrder)
	}
}

func TestValidateRejectsBadPICFLIP(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.yaml"
	if err := writeFile(path, "flip:\n  pic_flip: 1.5\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load with pic_flip=1.5 should have failed validation")
	}
}

func TestValidateRejectsBadRKOrder(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.yaml"
	if err := writeFile(path, "flip:\n  rk_order: 3\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load with rk_order=3 should have failed validation")
	}
}

func TestMustInitAndCfg(t *testing.T) {
	global = nil
	MustInit("")
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after MustInit")
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Fatal("Cfg() should panic before Init")
		}
	}()
	Cfg()
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
