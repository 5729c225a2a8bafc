package config

import "sync"

// WorldGenSettings holds demo world generation configuration
type WorldGenSettings struct {
	mu         sync.RWMutex
	seed       int64
	flatHeight int
	maxCode    uint8
	useNoise   bool
}

var globalWorldGenSettings = &WorldGenSettings{
	seed:       1,
	flatHeight: 3,
	maxCode:    17, // codes 1..17
	useNoise:   false,
}

// GetSeed returns the generator seed
func GetSeed() int64 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.seed
}

// SetSeed sets the generator seed
func SetSeed(seed int64) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.seed = seed
}

// GetFlatHeight returns the height of the flat demo terrain
func GetFlatHeight() int {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.flatHeight
}

// SetFlatHeight sets the flat terrain height
func SetFlatHeight(h int) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	if h < 0 {
		h = 0
	}
	globalWorldGenSettings.flatHeight = h
}

// GetMaxCode returns the highest voxel code the generators place
func GetMaxCode() uint8 {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.maxCode
}

// SetMaxCode sets the highest generated voxel code (at least 1)
func SetMaxCode(c uint8) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	if c == 0 {
		c = 1
	}
	globalWorldGenSettings.maxCode = c
}

// GetUseNoise returns whether the noise heightmap generator is selected
func GetUseNoise() bool {
	globalWorldGenSettings.mu.RLock()
	defer globalWorldGenSettings.mu.RUnlock()
	return globalWorldGenSettings.useNoise
}

// SetUseNoise selects the noise heightmap generator instead of the flat one
func SetUseNoise(enabled bool) {
	globalWorldGenSettings.mu.Lock()
	defer globalWorldGenSettings.mu.Unlock()
	globalWorldGenSettings.useNoise = enabled
}
