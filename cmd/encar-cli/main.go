package main

import (
	"context"

	"encar-backend/cmd/encar-cli/commands"
	"encar-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "encar-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
