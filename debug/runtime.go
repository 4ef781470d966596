package debug

// Runtime stats logger, started only with --debug. A screenshot session is
// short lived, so the interval is small and the logger stops with ctx.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats is one sample of process statistics.
type Stats struct {
	Goroutines uint64
	HeapAlloc  uint64
	StackInuse uint64
	MaxRSS     uint64
}

// Sample reads the current statistics.
func Sample() Stats {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Stats{
		HeapAlloc:  ms.HeapAlloc,
		StackInuse: ms.StackInuse,
		MaxRSS:     maxRSS(),
	}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.Goroutines = samples[0].Value.Uint64()
	}
	return s
}

// LogValue renders sizes in human units.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("goroutines", s.Goroutines),
		slog.String("heap_alloc", humanize.Bytes(s.HeapAlloc)),
		slog.String("stack_inuse", humanize.Bytes(s.StackInuse)),
		slog.String("max_rss", humanize.Bytes(s.MaxRSS)),
	)
}

// StartRuntimeLogger logs a Sample every interval until ctx is done.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("runtime-stats", "final", Sample())
				return
			case <-t.C:
				logger.Info("runtime-stats", "stats", Sample())
			}
		}
	}()
}
