package clock

import (
	"sync"
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 3, 9, 22, 30, 0, 0, time.UTC)
	c := NewFixed(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(2 * time.Hour)
	if got := c.Now(); !got.Equal(start.Add(2 * time.Hour)) {
		t.Errorf("after Advance, Now() = %v", got)
	}

	c.Set(start)
	c.AddDays(3)
	if got := c.Now(); got.Day() != 12 || got.Hour() != 22 {
		t.Errorf("after AddDays, Now() = %v", got)
	}
}

func TestFixedClockConcurrent(t *testing.T) {
	c := NewFixed(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Second)
			_ = c.Now()
		}()
	}
	wg.Wait()

	if got := c.Now().Unix(); got != 50 {
		t.Errorf("Now().Unix() = %d, want 50", got)
	}
}
