package stats

import (
	"sort"
	"sync"
)

// Registry holds one Stats per source label, creating them on first use.
type Registry struct {
	mu       sync.Mutex
	stats    map[string]*Stats
	newStats func() *Stats
}

func NewRegistry(newStats func() *Stats) *Registry {
	return &Registry{
		stats:    make(map[string]*Stats),
		newStats: newStats,
	}
}

func (r *Registry) Get(source string) *Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stats[source]
	if !ok {
		s = r.newStats()
		r.stats[source] = s
	}
	return s
}

// Sources returns the known source labels in sorted order.
func (r *Registry) Sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sources := make([]string, 0, len(r.stats))
	for source := range r.stats {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}
