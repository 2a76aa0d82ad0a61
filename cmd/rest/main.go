package main

import (
	"context"
	"log"

	"tyrechat-be/internal/bootstrap"
	"tyrechat-be/internal/config"
	"tyrechat-be/internal/server"
	"tyrechat-be/internal/tracer"
)

func main() {
	// 0. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Configuration
	cfg := config.Load()

	// 2. Bootstrap dependencies
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap application: %v", err)
	}
	defer func() {
		_ = container.HistoryWriter.Close()
		if container.NatsPublisher != nil {
			container.NatsPublisher.Close()
		}
		_ = container.Logger.Sync()
	}()

	// 3. Serve
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
