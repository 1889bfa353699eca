package main

import (
	"context"
	"flag"
	"log"

	"github.com/Black-And-White-Club/league-score-manager/app"
	"github.com/Black-And-White-Club/league-score-manager/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg, nil, true)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	runErr := application.Run(ctx)
	if err := application.Close(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Application stopped with error: %v", runErr)
	}
}
