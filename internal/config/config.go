package config

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidConfig is wrapped by every construction-time validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultCellSize   = 50
	DefaultTileSize   = 1024
	DefaultAtlasWidth = 16384
	// DefaultAtlasHeight holds three rows: sides, bottom, top.
	DefaultAtlasHeight = 4096

	FullBlockHeight = 1.0
	HalfBlockHeight = 0.5
)

// Atlas describes the shared texture atlas in pixels. It is fixed for the
// lifetime of a grid/mesh-builder pairing.
type Atlas struct {
	TileSize int
	Width    int
	Height   int
}

// DefaultAtlas returns the atlas layout the editor ships with.
func DefaultAtlas() Atlas {
	return Atlas{TileSize: DefaultTileSize, Width: DefaultAtlasWidth, Height: DefaultAtlasHeight}
}

// Validate reports an error wrapping ErrInvalidConfig if any dimension is non-positive.
func (a Atlas) Validate() error {
	if a.TileSize <= 0 || a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("%w: atlas dimensions must be positive (tile=%d, %dx%d)", ErrInvalidConfig, a.TileSize, a.Width, a.Height)
	}
	return nil
}

// Columns is the number of tiles per atlas row, i.e. the highest usable voxel code.
func (a Atlas) Columns() int {
	return a.Width / a.TileSize
}

// Rows is the number of tile rows in the atlas.
func (a Atlas) Rows() int {
	return a.Height / a.TileSize
}

// ValidateCellSize rejects non-positive cell sizes.
func ValidateCellSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfig, size)
	}
	return nil
}

// MeshSettings holds meshing configuration shared by the editor and tools
type MeshSettings struct {
	mu          sync.RWMutex
	blockHeight float32
	workers     int
}

var globalMeshSettings = &MeshSettings{
	blockHeight: FullBlockHeight,
	workers:     4,
}

// GetBlockHeight returns the block height used for new mesh rebuilds
func GetBlockHeight() float32 {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.blockHeight
}

// SetBlockHeight sets the block height. Values outside (0, 1] reset to a full block.
func SetBlockHeight(h float32) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()

	if h <= 0 || h > FullBlockHeight {
		h = FullBlockHeight
	}
	globalMeshSettings.blockHeight = h
}

// GetMeshWorkers returns the number of background mesh workers
func GetMeshWorkers() int {
	globalMeshSettings.mu.RLock()
	defer globalMeshSettings.mu.RUnlock()
	return globalMeshSettings.workers
}

// SetMeshWorkers sets the number of background mesh workers
func SetMeshWorkers(n int) {
	globalMeshSettings.mu.Lock()
	defer globalMeshSettings.mu.Unlock()

	// Clamp to reasonable values
	if n < 1 {
		n = 1
	}
	if n > 64 {
		n = 64
	}
	globalMeshSettings.workers = n
}
