package config

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestAtlasValidate(t *testing.T) {
	tests := []struct {
		name  string
		atlas Atlas
		ok    bool
	}{
		{"default", DefaultAtlas(), true},
		{"zero tile", Atlas{TileSize: 0, Width: 16, Height: 16}, false},
		{"negative width", Atlas{TileSize: 16, Width: -1, Height: 16}, false},
		{"zero height", Atlas{TileSize: 16, Width: 16, Height: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.atlas.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDefaultAtlasLayout(t *testing.T) {
	a := DefaultAtlas()
	if a.Columns() != 16 {
		t.Errorf("expected 16 columns, got %d", a.Columns())
	}
	if a.Rows() != 4 {
		t.Errorf("expected 4 rows, got %d", a.Rows())
	}
}

func TestValidateCellSize(t *testing.T) {
	if err := ValidateCellSize(DefaultCellSize); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range []int{0, -50} {
		if err := ValidateCellSize(s); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("size %d: expected ErrInvalidConfig, got %v", s, err)
		}
	}
}

func TestSetBlockHeightClamps(t *testing.T) {
	defer SetBlockHeight(FullBlockHeight)

	SetBlockHeight(HalfBlockHeight)
	if h := GetBlockHeight(); h != HalfBlockHeight {
		t.Errorf("expected %v, got %v", HalfBlockHeight, h)
	}
	SetBlockHeight(0)
	if h := GetBlockHeight(); h != FullBlockHeight {
		t.Errorf("expected zero height to reset to full, got %v", h)
	}
	SetBlockHeight(2)
	if h := GetBlockHeight(); h != FullBlockHeight {
		t.Errorf("expected oversized height to reset to full, got %v", h)
	}
}

func TestSetMeshWorkersClamps(t *testing.T) {
	defer SetMeshWorkers(4)

	SetMeshWorkers(0)
	if n := GetMeshWorkers(); n != 1 {
		t.Errorf("expected 1, got %d", n)
	}
	SetMeshWorkers(1000)
	if n := GetMeshWorkers(); n != 64 {
		t.Errorf("expected 64, got %d", n)
	}
}

func writeImage(t *testing.T, name string, w, h int, enc func(*os.File, image.Image) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := enc(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestReadAtlasPNG(t *testing.T) {
	path := writeImage(t, "atlas.png", 64, 48, func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	a, err := ReadAtlas(path, 16)
	if err != nil {
		t.Fatalf("ReadAtlas: %v", err)
	}
	if a.Width != 64 || a.Height != 48 || a.TileSize != 16 {
		t.Errorf("unexpected atlas %+v", a)
	}
}

func TestReadAtlasBMP(t *testing.T) {
	path := writeImage(t, "atlas.bmp", 32, 32, func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })
	a, err := ReadAtlas(path, 8)
	if err != nil {
		t.Fatalf("ReadAtlas: %v", err)
	}
	if a.Columns() != 4 || a.Rows() != 4 {
		t.Errorf("expected 4x4 tiles, got %dx%d", a.Columns(), a.Rows())
	}
}

func TestReadAtlasRejectsMisalignedTiles(t *testing.T) {
	path := writeImage(t, "atlas.png", 30, 32, func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	if _, err := ReadAtlas(path, 16); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestReadAtlasMissingFile(t *testing.T) {
	if _, err := ReadAtlas(filepath.Join(t.TempDir(), "nope.png"), 16); err == nil {
		t.Fatal("expected error for missing file")
	}
}
