package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", n, got, want)
		}
		pool.Close()
	}
}

func TestWorkerPool_ForEachVisitsEveryIndex(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const rows = 600
	seen := make([]atomic.Int32, rows)
	pool.ForEach(rows, func(i int) {
		seen[i].Add(1)
	})

	for i := range seen {
		if got := seen[i].Load(); got != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, got)
		}
	}
}

func TestWorkerPool_ForEachEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	called := false
	pool.ForEach(0, func(int) { called = true })
	if called {
		t.Error("ForEach(0) called fn")
	}
}

func TestWorkerPool_ForEachUnevenWork(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var slow, fast atomic.Int64
	pool.ForEach(100, func(i int) {
		if i%10 == 0 {
			time.Sleep(5 * time.Millisecond)
			slow.Add(1)
			return
		}
		fast.Add(1)
	})

	if slow.Load() != 10 || fast.Load() != 90 {
		t.Errorf("slow=%d fast=%d, want 10 and 90", slow.Load(), fast.Load())
	}
}

func TestWorkerPool_ConcurrentForEach(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.ForEach(50, func(int) { counter.Add(1) })
		}()
	}
	wg.Wait()

	if got := counter.Load(); got != 400 {
		t.Errorf("counter = %d, want 400", got)
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after close")
	}
}

func TestWorkerPool_ForEachAfterClose(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()

	var executed atomic.Bool
	pool.ForEach(10, func(int) { executed.Store(true) })

	if executed.Load() {
		t.Error("work was executed on a closed pool")
	}
}

func TestWorkerPool_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		pool := NewWorkerPool(4)
		pool.ForEach(100, func(int) {})
		pool.Close()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	if final := runtime.NumGoroutine(); final > baseline+2 {
		t.Errorf("goroutine count: baseline=%d, final=%d (leak detected)", baseline, final)
	}
}

func TestWorkerPool_CloseDuringForEach(t *testing.T) {
	const n = 512
	for round := 0; round < 50; round++ {
		pool := NewWorkerPool(2)
		var count atomic.Int64
		done := make(chan struct{})
		go func() {
			defer close(done)
			pool.ForEach(n, func(int) { count.Add(1) })
		}()
		pool.Close()

		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatalf("round %d: ForEach did not return after Close", round)
		}
		// ForEach runs either everything or, if Close won, nothing.
		if got := count.Load(); got != 0 && got != n {
			t.Fatalf("round %d: ran %d of %d items", round, got, n)
		}
	}
}

func BenchmarkWorkerPool_ForEach(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	b.ResetTimer()
	for range b.N {
		pool.ForEach(600, func(int) {})
	}
}
