package main

import (
	"context"

	"clinicbook/internal/client/cli"
	"clinicbook/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
