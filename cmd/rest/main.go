package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nutricoach-be/internal/bootstrap"
	"nutricoach-be/internal/config"
	"nutricoach-be/internal/server"
	"nutricoach-be/internal/tracer"
	"nutricoach-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op without an endpoint)
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEndpoint)
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	container.NotificationService.Start(ctx)

	if cfg.Coach.SchedulerEnabled {
		sched, err := bootstrap.NewCoachScheduler(cfg.Coach, container.CoachService, container.Logger)
		if err != nil {
			log.Fatalf("Invalid scheduler configuration: %v", err)
		}
		sched.Start(ctx)
		defer sched.Wait()
		log.Printf("Background: In-process scheduler running %v", sched.Names())
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Shutdown()
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
