package telemetry

import (
	"context"
	"testing"
	"time"
)

func TestRecordPerfStats(t *testing.T) {
	defer SetupForTesting("test:telemetry")()

	// a short cpu sample keeps the test fast; a failed cpu read only
	// warns, it never panics or aborts the other gauges
	recordPerfStats(context.Background(), time.Millisecond*50)
}

func TestInstrumentPerfStatsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	InstrumentPerfStats(ctx)
	cancel()
}
