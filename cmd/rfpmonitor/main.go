package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/rfpmonitor/internal/config"
	"github.com/dmitrijs2005/rfpmonitor/internal/monitor"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := monitor.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
