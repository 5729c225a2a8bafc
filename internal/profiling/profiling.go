package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight accumulator for voxel edit, mesh and raycast timings.

// Stat is the accumulated cost of one named operation.
type Stat struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu    sync.Mutex
	stats = make(map[string]*Stat)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("meshing.BuildCellMesh")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := stats[name]
		if s == nil {
			s = &Stat{Name: name}
			stats[name] = s
		}
		s.Total += d
		s.Calls++
		mu.Unlock()
	}
}

// Reset clears all accumulated stats.
func Reset() {
	mu.Lock()
	clear(stats)
	mu.Unlock()
}

// Snapshot returns the current stats ordered by total duration, largest first.
func Snapshot() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Lookup returns the stat recorded under name.
func Lookup(name string) (Stat, bool) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := stats[name]
	if !ok {
		return Stat{}, false
	}
	return *s, true
}

// TopN formats the n most expensive operations.
// Example: "meshing.BuildCellMesh:4.2ms/12, physics.CastRay:0.1ms/3"
func TopN(n int) string {
	list := Snapshot()
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, s := range list[:n] {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, s.Name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms/"+strconv.Itoa(s.Calls))
	}
	return strings.Join(parts, ", ")
}
