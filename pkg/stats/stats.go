// Package stats tracks numeric samples over a sliding time window and answers
// percentile queries from an order statistic tree.
package stats

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/phuslu/log"

	"github.com/pliu/ostree/pkg/rbtree"
)

// Stats tracks numeric values in a sliding window and can produce summaries.
// It is safe for concurrent use.
type Stats struct {
	mu         sync.Mutex
	values     *rbtree.Tree[int64]
	window     *list.List
	windowSize time.Duration
	clock      clock.Clock
	sum        int64
}

type measurement struct {
	timestamp time.Time
	item      *rbtree.Item[int64]
}

// Option configures Stats.
type Option func(*Stats)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clk clock.Clock) Option {
	return func(s *Stats) {
		s.clock = clk
	}
}

// WithMaxSamples caps how many values the window holds. Once full, adding a
// value evicts the oldest one.
func WithMaxSamples(n int) Option {
	return func(s *Stats) {
		s.values = rbtree.New(int64Less, rbtree.WithCapacity(n))
	}
}

func int64Less(a, b int64) bool {
	return a < b
}

func NewStats(windowSize time.Duration, opts ...Option) *Stats {
	s := &Stats{
		values:     rbtree.New(int64Less),
		window:     list.New(),
		windowSize: windowSize,
		clock:      clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewStatsWithClock(windowSize time.Duration, clk clock.Clock) *Stats {
	return NewStats(windowSize, WithClock(clk))
}

func (s *Stats) Add(value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.cleanup(now)
	s.add(now, value)
}

func (s *Stats) add(timestamp time.Time, value int64) {
	item, err := s.values.Insert(value)
	if errors.Is(err, rbtree.ErrFull) {
		s.evictOldest()
		item, err = s.values.Insert(value)
	}
	if err != nil {
		// The window and the tree hold the same samples, so this means they diverged.
		log.Error().Err(err).Int64("value", value).Int("window", s.window.Len()).Msg("dropping sample")
		return
	}
	s.window.PushBack(&measurement{timestamp: timestamp, item: item})
	s.sum += value
}

func (s *Stats) Average() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.values.Len()
	if count == 0 {
		return 0, false
	}
	return float64(s.sum) / float64(count), true
}

// Percentile returns the value at each requested percentile, using the
// nearest-rank-below definition over the current window.
func (s *Stats) Percentile(percentiles []float64) ([]int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(percentiles) == 0 {
		return nil, false
	}
	for _, p := range percentiles {
		if p < 0 || p > 100 {
			return nil, false
		}
	}

	count := s.values.Len()
	if count == 0 {
		return nil, false
	}

	results := make([]int64, 0, len(percentiles))
	for _, p := range percentiles {
		index := int(float64(count-1) * (p / 100.0))
		item, ok := s.values.Select(index)
		if !ok {
			return nil, false
		}
		results = append(results, item.Value())
	}
	return results, true
}

// PercentRank returns the percentage of values in the window strictly below
// value.
func (s *Stats) PercentRank(value int64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.values.Len()
	if count == 0 {
		return 0, false
	}
	return 100 * float64(s.values.Rank(value)) / float64(count), true
}

func (s *Stats) Min() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.values.Min()
	if !ok {
		return 0, false
	}
	return item.Value(), true
}

func (s *Stats) Max() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.values.Max()
	if !ok {
		return 0, false
	}
	return item.Value(), true
}

func (s *Stats) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Len()
}

func (s *Stats) Values() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Values()
}

// Expire drops values that fell out of the window without adding a new one.
func (s *Stats) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanup(s.clock.Now())
}

// Merge adds every measurement from other, keeping their original timestamps.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	if s == other {
		return
	}

	// Grab other's state by copying its window.
	other.mu.Lock()
	measurements := make([]sample, 0, other.window.Len())
	for e := other.window.Front(); e != nil; e = e.Next() {
		m := e.Value.(*measurement)
		measurements = append(measurements, sample{timestamp: m.timestamp, value: m.item.Value()})
	}
	other.mu.Unlock()

	if len(measurements) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergeMeasurements(measurements)
	s.cleanup(s.clock.Now())
}

type sample struct {
	timestamp time.Time
	value     int64
}

// mergeMeasurements interleaves ms into the window by timestamp so that the
// front of the window stays the oldest measurement.
func (s *Stats) mergeMeasurements(ms []sample) {
	existing := make([]sample, 0, s.window.Len())
	for e := s.window.Front(); e != nil; e = e.Next() {
		m := e.Value.(*measurement)
		existing = append(existing, sample{timestamp: m.timestamp, value: m.item.Value()})
	}

	s.values = rbtree.New(int64Less, rbtree.WithCapacity(s.capacity()))
	s.window = list.New()
	s.sum = 0

	i, j := 0, 0
	for i < len(existing) && j < len(ms) {
		if ms[j].timestamp.Before(existing[i].timestamp) {
			s.add(ms[j].timestamp, ms[j].value)
			j++
		} else {
			s.add(existing[i].timestamp, existing[i].value)
			i++
		}
	}
	for ; i < len(existing); i++ {
		s.add(existing[i].timestamp, existing[i].value)
	}
	for ; j < len(ms); j++ {
		s.add(ms[j].timestamp, ms[j].value)
	}
}

func (s *Stats) capacity() int {
	return s.values.Capacity()
}

func (s *Stats) evictOldest() {
	e := s.window.Front()
	if e == nil {
		return
	}
	m := e.Value.(*measurement)
	if err := s.values.Erase(m.item); err != nil {
		// Every window entry owns a live item of s.values; the window is still
		// trimmed so the sum stays consistent with it.
		log.Error().Err(err).Int64("value", m.item.Value()).Msg("window sample missing from tree")
	}
	s.sum -= m.item.Value()
	s.window.Remove(e)
}

// cleanup removes measurements that are older than the window size.
func (s *Stats) cleanup(now time.Time) {
	for e := s.window.Front(); e != nil; e = s.window.Front() {
		m := e.Value.(*measurement)
		if now.Sub(m.timestamp) <= s.windowSize {
			// The list is sorted by time, so we can stop here.
			break
		}
		s.evictOldest()
	}
}
