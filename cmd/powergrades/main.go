package main

import (
	"context"
	"powergrades/cmd/powergrades/commands"
	"powergrades/lib/serviceutil"
	"powergrades/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(false)

	err := telemetry.SetupFromEnv(ctx, "powergrades")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
