package dynamo

import (
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
	}{
		{0, 1, 4},
		{1, 1, 4},
		{10, 16, 4},
		{100, 8, 4},
		{101, 8, 3},
		{1000, 1, 0},
	}

	for _, tt := range tests {
		hits := make([]int32, tt.n)
		ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", tt.n, i, h)
			}
		}
	}
}
