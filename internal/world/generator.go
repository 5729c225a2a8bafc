package world

import (
	"math"

	"mini-voxel/internal/config"
)

// TerrainGenerator fills a cell of a grid with demo content.
type TerrainGenerator interface {
	HeightAt(x, z int) int
	Populate(g *Grid, c CellCoord)
}

// codeAt picks a material code in [1, maxCode] for a voxel.
func codeAt(x, y, z int, seed int64, maxCode uint8) uint8 {
	if maxCode <= 1 {
		return 1
	}
	return 1 + uint8(hash3(int64(x), int64(y), int64(z), seed)%uint64(maxCode))
}

// FlatGenerator fills every column below a fixed height with random material codes.
type FlatGenerator struct {
	height  int
	seed    int64
	maxCode uint8
}

// NewFlatGenerator creates a flat generator. A maxCode of 1 fills with a single material.
func NewFlatGenerator(height int, seed int64, maxCode uint8) *FlatGenerator {
	return &FlatGenerator{height: height, seed: seed, maxCode: maxCode}
}

// HeightAt returns the first empty Y of a column.
func (f *FlatGenerator) HeightAt(x, z int) int {
	return f.height
}

// Populate fills y < height inside cell c.
func (f *FlatGenerator) Populate(g *Grid, c CellCoord) {
	g.Fill(c, func(x, y, z int) uint8 {
		if y < 0 || y >= f.height {
			return Air
		}
		return codeAt(x, y, z, f.seed, f.maxCode)
	})
}

// NoiseGenerator fills columns up to a value-noise heightmap.
type NoiseGenerator struct {
	seed        int64
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
	maxCode     uint8
}

// NewNoiseGenerator creates a heightmap generator with default shape settings.
func NewNoiseGenerator(seed int64, baseHeight int, maxCode uint8) *NoiseGenerator {
	return &NoiseGenerator{
		seed:        seed,
		scale:       1.0 / 32.0,
		baseHeight:  baseHeight,
		amp:         8,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
		maxCode:     maxCode,
	}
}

// HeightAt computes the first empty Y of the column at world X,Z.
func (n *NoiseGenerator) HeightAt(x, z int) int {
	v := octaveNoise2D(float64(x)*n.scale, float64(z)*n.scale, n.seed, n.octaves, n.persistence, n.lacunarity)
	h := float64(n.baseHeight) + (v-0.5)*2*n.amp
	if h < 0 {
		h = 0
	}
	return int(math.Floor(h))
}

// Populate fills y in [0, HeightAt) inside cell c.
func (n *NoiseGenerator) Populate(g *Grid, c CellCoord) {
	size := g.CellSize()
	ox, _, oz := g.CellOrigin(c)
	heights := make([]int, size*size)
	for z := range size {
		for x := range size {
			heights[z*size+x] = n.HeightAt(ox+x, oz+z)
		}
	}
	g.Fill(c, func(x, y, z int) uint8 {
		if y < 0 || y >= heights[(z-oz)*size+(x-ox)] {
			return Air
		}
		return codeAt(x, y, z, n.seed, n.maxCode)
	})
}

// NewConfiguredGenerator builds the generator selected in config.
func NewConfiguredGenerator() TerrainGenerator {
	if config.GetUseNoise() {
		return NewNoiseGenerator(config.GetSeed(), config.GetFlatHeight(), config.GetMaxCode())
	}
	return NewFlatGenerator(config.GetFlatHeight(), config.GetSeed(), config.GetMaxCode())
}
