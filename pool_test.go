package ficha

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Notes:
// - Pools here use FormatPDF so no browser is started.
// - Acquire after Close returns ErrPoolClosed rather than blocking.

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Renderer, error)
	Release(*Renderer)
	Size() int
	Close() error
} = (*RendererPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "explicit can exceed max", workers: 16, want: 16},
		{name: "zero uses auto calculation", workers: 0, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{name: "negative uses auto calculation", workers: -5, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------

func newTestPool(t *testing.T, n int) *RendererPool {
	t.Helper()
	pool, err := NewRendererPool(n, WithFormat(FormatPDF))
	if err != nil {
		t.Fatalf("NewRendererPool() error = %v", err)
	}
	return pool
}

func TestNewRendererPool_InvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := NewRendererPool(2, WithFormat("docx"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestRendererPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newTestPool(t, tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRendererPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	defer pool.Close()
	ctx := context.Background()

	r1, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	r2, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r1 == r2 {
		t.Error("expected different renderer instances")
	}

	pool.Release(r1)
	r3, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r3 != r1 {
		t.Error("expected to get back released renderer")
	}

	pool.Release(r2)
	pool.Release(r3)
}

func TestRendererPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	defer pool.Close()

	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer pool.Release(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRendererPool_Close(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)

	r, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Release after close is a no-op
	pool.Release(r)

	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

// closeCountingWriter renders nothing and counts close calls.
type closeCountingWriter struct {
	mu     sync.Mutex
	closes int
}

func (w *closeCountingWriter) write(context.Context, *Document) ([]byte, error) {
	return nil, nil
}

func (w *closeCountingWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closes++
	return nil
}

func TestRendererPool_CloseWhileCreating(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	writer := &closeCountingWriter{}
	pool.build = func(opts ...Option) (*Renderer, error) {
		r, err := NewRenderer(opts...)
		if err != nil {
			return nil, err
		}
		r.writer = writer
		// Close lands after Acquire released the lock to build.
		if err := pool.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		return r, nil
	}

	r, err := pool.Acquire(context.Background())
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
	}
	if r != nil {
		t.Error("Acquire() returned a renderer from a closed pool")
	}
	if writer.closes != 1 {
		t.Errorf("renderer closed %d times, want 1", writer.closes)
	}
	if len(pool.renderers) != 0 {
		t.Errorf("pool tracks %d renderers after Close, want 0", len(pool.renderers))
	}
}

// TestRendererPool_HighContention verifies the pool stays deadlock-free with
// many goroutines sharing few renderers, each rendering a record.
func TestRendererPool_HighContention(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	defer pool.Close()

	rec := sampleRecord()
	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := pool.Acquire(context.Background())
			if err != nil {
				errs <- err
				return
			}
			defer pool.Release(r)
			if _, err := r.Render(rec); err != nil {
				errs <- err
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}

	close(errs)
	for err := range errs {
		t.Errorf("render error: %v", err)
	}
}
