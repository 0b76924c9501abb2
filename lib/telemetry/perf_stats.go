package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var meter = otel.Meter("perf_stats")
var cpuGauge, _ = meter.Float64Gauge("cpu_usage")
var memoryGauge, _ = meter.Int64Gauge("allocated_mb")
var liveObjectsGauge, _ = meter.Int64Gauge("live_objects")
var goroutineGauge, _ = meter.Int64Gauge("goroutine_count")

// InstrumentPerfStats samples process cpu/memory/goroutine gauges every
// 30 seconds until ctx is cancelled.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second * 30)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				recordPerfStats(ctx, time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// cpuSample is how long the cpu usage measurement averages over; it
// blocks for that duration.
func recordPerfStats(ctx context.Context, cpuSample time.Duration) {
	usage, err := cpu.Percent(cpuSample, false)
	if err != nil {
		slog.WarnContext(ctx, "failed to read cpu usage", "err", err)
	} else {
		cpuGauge.Record(ctx, usage[0])
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
	liveObjectsGauge.Record(ctx, int64(memStats.Mallocs)-int64(memStats.Frees))
	goroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
}
