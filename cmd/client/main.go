package main

import (
	"context"
	"log"

	"github.com/mapsketch/mapsketch/internal/client/cli"
	"github.com/mapsketch/mapsketch/internal/client/config"
	"github.com/mapsketch/mapsketch/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, logging.NewDefault())

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(context.Background())

}
