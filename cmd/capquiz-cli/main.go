package main

import (
	"context"
	"os"

	"capquiz-backend/cmd/capquiz-cli/commands"
	"capquiz-backend/lib/serviceutil"
	"capquiz-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()

	telemetry.InitSlog(true)
	tel, err := telemetry.SetupFromEnv(ctx, "capquiz-cli")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(ctx)

	commands.ExecuteContext(ctx)
}
