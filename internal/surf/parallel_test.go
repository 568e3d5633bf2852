package surf

import (
	"sync/atomic"
	"testing"
)

func TestForEach(t *testing.T) {
	tests := []struct {
		n, workers int
	}{
		{0, 0},
		{1, 4},
		{10, 1},
		{10, 3},
		{100, 0},
	}

	for _, tt := range tests {
		visits := make([]int32, tt.n)
		var total atomic.Int32
		forEach(tt.n, tt.workers, func(i int) {
			atomic.AddInt32(&visits[i], 1)
			total.Add(1)
		})
		if int(total.Load()) != tt.n {
			t.Errorf("n=%d workers=%d: %d calls, want %d", tt.n, tt.workers, total.Load(), tt.n)
		}
		for i, v := range visits {
			if v != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tt.n, tt.workers, i, v)
			}
		}
	}
}
