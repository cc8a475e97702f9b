package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/keyhaven/keyhaven/internal/app/bootstrap"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()
	rt, err := bootstrap.NewRuntime(ctx, *configPath)
	if err != nil {
		slog.Error("bootstrap failed", "error", err.Error())
		os.Exit(1)
	}

	if err := rt.RunAPI(ctx); err != nil {
		slog.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
