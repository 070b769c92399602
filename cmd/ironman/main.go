package main

import (
	"context"
	"ironman-results/cmd/ironman/commands"
	"ironman-results/lib/serviceutil"
	"ironman-results/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	t, err := telemetry.SetupFromEnv(ctx, "ironman")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer t.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
