package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/suntech-x/cmsadmin/internal/app"
	"github.com/suntech-x/cmsadmin/internal/config"
	"github.com/suntech-x/cmsadmin/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, app.ErrUsage) || errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, app.Usage)
		}
		fmt.Fprintf(os.Stderr, "cmsctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.Flags("cmsctl")
	inv := app.CommandFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	inv.Args = fs.Args()

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli, err := app.NewCLI(ctx, cfg, log, os.Stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize cmsctl", "error", err)
		return err
	}
	defer cli.Close()

	return cli.Run(ctx, inv)
}
