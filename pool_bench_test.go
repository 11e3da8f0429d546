//go:build bench

package ficha

import (
	"context"
	"fmt"
	"runtime"
	"testing"
)

// BenchmarkResolvePoolSize benchmarks pool size calculation.
func BenchmarkResolvePoolSize(b *testing.B) {
	for _, w := range []int{0, 1, 4, 8} {
		b.Run(fmt.Sprintf("workers_%d", w), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ResolvePoolSize(w)
			}
		})
	}
}

// BenchmarkRendererPoolParallel benchmarks acquire, render, release cycles.
func BenchmarkRendererPoolParallel(b *testing.B) {
	pool, err := NewRendererPool(runtime.GOMAXPROCS(0), WithFormat(FormatPDF))
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()
	rec := sampleRecord()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r, err := pool.Acquire(context.Background())
			if err != nil {
				b.Error(err)
				return
			}
			if _, err := r.Render(rec); err != nil {
				b.Error(err)
			}
			pool.Release(r)
		}
	})
}

// BenchmarkRender benchmarks a single renderer per format without a browser.
func BenchmarkRender(b *testing.B) {
	rec := sampleRecord()
	for _, f := range []Format{FormatPDF, FormatHTML} {
		b.Run(string(f), func(b *testing.B) {
			r, err := NewRenderer(WithFormat(f))
			if err != nil {
				b.Fatal(err)
			}
			defer r.Close()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := r.Render(rec); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
