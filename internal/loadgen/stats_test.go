package loadgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Record(t *testing.T) {
	s := NewStatistics()

	s.Record(Outcome{ID: 1, Success: true, StatusCode: 200, Elapsed: 20 * time.Millisecond})
	s.Record(Outcome{ID: 2, Success: true, StatusCode: 200, Elapsed: 10 * time.Millisecond})
	s.Record(Outcome{ID: 3, Success: false, Err: "dial tcp: connection refused", Elapsed: 3 * time.Millisecond})
	s.Record(Outcome{ID: 4, Success: true, StatusCode: 500, Elapsed: 30 * time.Millisecond})

	assert.Equal(t, 4, s.Total())
	assert.Equal(t, 3, s.Successful())
	assert.Equal(t, 1, s.Failed())
	assert.Equal(t, s.Total(), s.Successful()+s.Failed())

	assert.InDelta(t, 10.0, s.Min(), 1e-9)
	assert.InDelta(t, 30.0, s.Max(), 1e-9)
	assert.InDelta(t, 60.0, s.TotalMillis(), 1e-9)
	assert.InDelta(t, 20.0, s.Average(), 1e-9)
	assert.Equal(t, []float64{10, 20, 30}, s.SortedElapsed())
	assert.Equal(t, map[int]int{200: 2, 500: 1}, s.StatusCodes())

	errs := s.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].ID)
	assert.Equal(t, "dial tcp: connection refused", errs[0].Message)
	assert.InDelta(t, 3.0, errs[0].ElapsedMs, 1e-9)

	assert.Equal(t, int64(3), s.Histogram().TotalCount())
}

func TestStatistics_SubMillisecondResolution(t *testing.T) {
	s := NewStatistics()
	s.Record(Outcome{Success: true, Elapsed: 1500 * time.Microsecond})

	assert.InDelta(t, 1.5, s.Min(), 1e-9)
}

func TestStatistics_Empty(t *testing.T) {
	s := NewStatistics()

	assert.Equal(t, 0, s.Total())
	assert.Zero(t, s.Min())
	assert.Zero(t, s.Max())
	assert.Zero(t, s.Average())
	assert.Empty(t, s.SortedElapsed())
	assert.Zero(t, s.Duration())
}

func TestStatistics_Duration(t *testing.T) {
	s := NewStatistics()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Start(start)
	s.Finish(start.Add(2500 * time.Millisecond))

	assert.Equal(t, 2500*time.Millisecond, s.Duration())
}

func TestStatistics_ConcurrentRecord(t *testing.T) {
	s := NewStatistics()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Record(Outcome{ID: i, Success: i%3 != 0, Elapsed: time.Duration(i+1) * time.Millisecond})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Total())
	assert.Equal(t, s.Total(), s.Successful()+s.Failed())
	for _, v := range s.SortedElapsed() {
		assert.GreaterOrEqual(t, v, s.Min())
		assert.LessOrEqual(t, v, s.Max())
	}
}
