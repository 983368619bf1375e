package stats

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/phuslu/log"
	"github.com/stretchr/testify/require"
)

// captureLog redirects the default logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := log.DefaultLogger
	log.DefaultLogger = log.Logger{Writer: &log.IOWriter{Writer: &buf}}
	t.Cleanup(func() { log.DefaultLogger = saved })
	return &buf
}

func TestStats_BasicPercentiles(t *testing.T) {
	stats := NewStatsWithClock(1*time.Second, clock.NewMock())

	// Add 100 values from 1 to 100
	for i := 1; i <= 100; i++ {
		stats.Add(int64(i))
	}

	values, ok := stats.Percentile([]float64{0, 50, 90, 99, 100})
	require.True(t, ok)
	require.Equal(t, []int64{1, 50, 90, 99, 100}, values)

	avg, ok := stats.Average()
	require.True(t, ok)
	require.Equal(t, float64(50.5), avg)

	lo, ok := stats.Min()
	require.True(t, ok)
	require.Equal(t, int64(1), lo)
	hi, ok := stats.Max()
	require.True(t, ok)
	require.Equal(t, int64(100), hi)
}

func TestStats_InvalidQueries(t *testing.T) {
	stats := NewStatsWithClock(1*time.Second, clock.NewMock())

	_, ok := stats.Percentile([]float64{50})
	require.False(t, ok, "empty window")
	_, ok = stats.Average()
	require.False(t, ok)
	_, ok = stats.PercentRank(1)
	require.False(t, ok)
	_, ok = stats.Min()
	require.False(t, ok)
	_, ok = stats.Max()
	require.False(t, ok)
	require.Empty(t, stats.Values())

	stats.Add(1)
	_, ok = stats.Percentile(nil)
	require.False(t, ok)
	_, ok = stats.Percentile([]float64{50, 101})
	require.False(t, ok)
	_, ok = stats.Percentile([]float64{-1})
	require.False(t, ok)
}

func TestStats_SlidingWindow(t *testing.T) {
	windowSize := 1 * time.Second
	mockClock := clock.NewMock()
	stats := NewStatsWithClock(windowSize, mockClock)

	// Add initial set of values (1-100)
	for i := 1; i <= 100; i++ {
		stats.Add(int64(i))
	}
	require.Equal(t, 100, stats.values.Len())
	vals, ok := stats.Percentile([]float64{50, 99})
	require.True(t, ok)
	require.Equal(t, []int64{50, 99}, vals)

	// Advance clock by half the window size
	mockClock.Add(windowSize / 2)

	// Add a second set of values (101-200)
	for i := 101; i <= 200; i++ {
		stats.Add(int64(i))
	}
	require.Equal(t, 200, stats.values.Len())

	// Check percentiles with mixed data {1..100, 101..200}
	vals, ok = stats.Percentile([]float64{50, 95, 99})
	require.True(t, ok)
	require.Equal(t, []int64{100, 190, 198}, vals)
	avg, ok := stats.Average()
	require.True(t, ok)
	require.InDelta(t, 100.5, avg, 1e-9)

	// Advance clock so the first set expires
	mockClock.Add(windowSize/2 + 1*time.Millisecond)

	// Add a third set of values (201-300). This will trigger cleanup.
	for i := 201; i <= 300; i++ {
		stats.Add(int64(i))
	}

	// Now the list should contain {101..200, 201..300}
	require.Equal(t, 200, stats.values.Len())
	require.NoError(t, stats.values.Check())

	vals, ok = stats.Percentile([]float64{50, 95, 99})
	require.True(t, ok)
	require.Equal(t, []int64{200, 290, 298}, vals)
	avg, ok = stats.Average()
	require.True(t, ok)
	require.InDelta(t, 200.5, avg, 1e-9)
}

func TestStats_Expire(t *testing.T) {
	mockClock := clock.NewMock()
	stats := NewStatsWithClock(time.Second, mockClock)
	stats.Add(5)
	stats.Add(7)

	mockClock.Add(2 * time.Second)
	require.Equal(t, 2, stats.Len())
	stats.Expire()
	require.Equal(t, 0, stats.Len())
	_, ok := stats.Average()
	require.False(t, ok)
}

func TestStats_Duplicates(t *testing.T) {
	mockClock := clock.NewMock()
	stats := NewStatsWithClock(time.Second, mockClock)

	stats.Add(10)
	stats.Add(10)
	mockClock.Add(600 * time.Millisecond)
	stats.Add(10)
	stats.Add(5)
	require.Equal(t, []int64{5, 10, 10, 10}, stats.Values())

	// Only the two oldest tens expire.
	mockClock.Add(500 * time.Millisecond)
	stats.Expire()
	require.Equal(t, []int64{5, 10}, stats.Values())
	require.NoError(t, stats.values.Check())
}

func TestStats_PercentRank(t *testing.T) {
	stats := NewStatsWithClock(time.Minute, clock.NewMock())
	for i := 1; i <= 10; i++ {
		stats.Add(int64(i * 10))
	}

	rank, ok := stats.PercentRank(10)
	require.True(t, ok)
	require.Equal(t, float64(0), rank)

	rank, ok = stats.PercentRank(55)
	require.True(t, ok)
	require.Equal(t, float64(50), rank)

	rank, ok = stats.PercentRank(1000)
	require.True(t, ok)
	require.Equal(t, float64(100), rank)
}

func TestStats_MaxSamplesEvictsOldest(t *testing.T) {
	mockClock := clock.NewMock()
	stats := NewStats(time.Hour, WithClock(mockClock), WithMaxSamples(3))

	for _, v := range []int64{30, 10, 20} {
		stats.Add(v)
		mockClock.Add(time.Millisecond)
	}
	require.Equal(t, []int64{10, 20, 30}, stats.Values())

	stats.Add(5)
	require.Equal(t, 3, stats.Len())
	require.Equal(t, []int64{5, 10, 20}, stats.Values())

	avg, ok := stats.Average()
	require.True(t, ok)
	require.InDelta(t, 35.0/3.0, avg, 1e-9)
}

func TestStats_Performance(t *testing.T) {
	stats := NewStatsWithClock(1*time.Second, clock.NewMock())

	// Pre-populate the tracker with 50000 data points
	for range 50000 {
		stats.Add(rand.Int63n(10000))
	}

	addDurations := make([]time.Duration, 1000)
	percentileDurations := make([]time.Duration, 1000)
	for i := range 1000 {
		start := time.Now()
		stats.Add(rand.Int63n(1000))
		addDurations[i] = time.Since(start)

		start = time.Now()
		stats.Percentile([]float64{50, 99})
		percentileDurations[i] = time.Since(start)
	}

	t.Logf("Data points: %d", stats.Len())

	var totalAdd time.Duration
	for _, d := range addDurations {
		totalAdd += d
	}
	var totalPercentile time.Duration
	for _, d := range percentileDurations {
		totalPercentile += d
	}

	t.Logf("Average Add latency: %v", totalAdd/time.Duration(len(addDurations)))
	t.Logf("Average Percentile latency: %v", totalPercentile/time.Duration(len(percentileDurations)))
}

func TestStatsMerge(t *testing.T) {
	clk := clock.NewMock()
	left := NewStatsWithClock(5*time.Minute, clk)
	right := NewStatsWithClock(5*time.Minute, clk)

	left.Add(10)
	clk.Add(10 * time.Millisecond)
	left.Add(20)
	right.Add(30)
	clk.Add(10 * time.Millisecond)
	right.Add(40)

	// Interleave timestamps by adding more data to both trackers.
	clk.Add(2 * time.Minute)
	left.Add(25)
	clk.Add(10 * time.Millisecond)
	right.Add(35)
	clk.Add(10 * time.Millisecond)
	left.Add(45)

	left.Merge(right)
	require.Equal(t, 7, left.Len())
	require.Equal(t, 3, right.Len())
	require.NoError(t, left.values.Check())

	avg, ok := left.Average()
	require.True(t, ok)
	require.InDelta(t, 205.0/7.0, avg, 1e-9)

	vals, ok := left.Percentile([]float64{50, 75})
	require.True(t, ok)
	require.Equal(t, []int64{30, 35}, vals)

	// This should drop the first 4 data points
	clk.Add(4 * time.Minute)
	left.Add(50)
	right.Add(10)
	require.Equal(t, 4, left.Len())
	require.Equal(t, 2, right.Len())

	avg, ok = left.Average()
	require.True(t, ok)
	require.InDelta(t, 155.0/4.0, avg, 1e-9)

	vals, ok = left.Percentile([]float64{50})
	require.True(t, ok)
	require.Equal(t, []int64{35}, vals)
}

func TestStatsMerge_SelfAndNil(t *testing.T) {
	stats := NewStatsWithClock(time.Minute, clock.NewMock())
	stats.Add(1)
	stats.Merge(stats)
	stats.Merge(nil)
	require.Equal(t, 1, stats.Len())
}

func TestStats_EvictLogsSampleMissingFromTree(t *testing.T) {
	logs := captureLog(t)
	mockClock := clock.NewMock()
	stats := NewStatsWithClock(time.Second, mockClock)
	stats.Add(4)
	stats.Add(6)

	// Drop the oldest sample from the tree behind the window's back.
	oldest := stats.window.Front().Value.(*measurement)
	require.NoError(t, stats.values.Erase(oldest.item))

	mockClock.Add(2 * time.Second)
	stats.Expire()

	require.Equal(t, 0, stats.window.Len())
	require.Equal(t, 0, stats.Len())
	require.Equal(t, int64(0), stats.sum)
	require.Contains(t, logs.String(), "window sample missing from tree")
	require.NoError(t, stats.values.Check())
}

func TestStats_AddLogsDroppedSample(t *testing.T) {
	logs := captureLog(t)
	stats := NewStats(time.Minute, WithClock(clock.NewMock()), WithMaxSamples(1))

	// A value in the tree with no window entry cannot be evicted.
	_, err := stats.values.Insert(1)
	require.NoError(t, err)

	stats.Add(2)

	require.Equal(t, []int64{1}, stats.Values())
	require.Equal(t, 0, stats.window.Len())
	require.Equal(t, int64(0), stats.sum)
	require.Contains(t, logs.String(), "dropping sample")
}
