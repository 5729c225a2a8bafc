package config

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ReadAtlas reads the pixel dimensions of an atlas image without decoding
// its pixels and returns a validated Atlas for the given tile size.
func ReadAtlas(path string, tileSize int) (Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return Atlas{}, fmt.Errorf("failed to open atlas %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Atlas{}, fmt.Errorf("failed to read atlas header %s: %w", path, err)
	}

	a := Atlas{TileSize: tileSize, Width: cfg.Width, Height: cfg.Height}
	if err := a.Validate(); err != nil {
		return Atlas{}, fmt.Errorf("atlas %s (%s): %w", path, format, err)
	}
	if cfg.Width%tileSize != 0 || cfg.Height%tileSize != 0 {
		return Atlas{}, fmt.Errorf("%w: atlas %s is %dx%d, not a multiple of tile size %d",
			ErrInvalidConfig, path, cfg.Width, cfg.Height, tileSize)
	}
	return a, nil
}
