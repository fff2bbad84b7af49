package main

import (
	"context"
	"log"

	"github.com/mlegrand/gotasks/internal/server"
	"github.com/mlegrand/gotasks/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
