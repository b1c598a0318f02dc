package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"backsim/api"
	"backsim/config"
	"backsim/engine"
	"backsim/log"
	"backsim/strategies"
)

func main() {
	app := &cli.App{
		Name:  "backsim",
		Usage: "event driven equity backtesting engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a JSON configuration file",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "override the configured strategy",
			},
			&cli.BoolFlag{
				Name:  "serve",
				Usage: "keep the API server running after the backtest completes",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:  "strategies",
				Usage: "list the available strategies",
				Action: func(_ *cli.Context) error {
					for _, name := range strategies.Names() {
						fmt.Println(name)
					}
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("verbose") {
		log.SetAllLevels(log.Levels{Info: true, Debug: true, Warn: true, Error: true})
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if override := c.String("strategy"); override != "" {
		cfg.Strategy.Name = override
		if err = cfg.Validate(); err != nil {
			return err
		}
	}

	bt, err := engine.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serve := cfg.API.Enabled || c.Bool("serve")
	var server *api.Server
	if serve {
		server = api.NewServer(cfg.API.ListenAddress, bt)
		go func() {
			if err := server.ListenAndServe(); err != nil {
				log.Errorf(log.APIServer, "server stopped: %v", err)
			}
		}()
	}

	report, err := bt.Run(ctx)
	if err != nil {
		return err
	}

	if serve {
		server.SetReport(report)
		log.Infoln(log.Global, "backtest complete, serving results until interrupted")
		<-ctx.Done()
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = "config.json"
	}
	cfg, err := config.ReadConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration %v: %w", path, err)
	}
	return cfg, nil
}
