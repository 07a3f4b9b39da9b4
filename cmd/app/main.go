package main

import (
	"context"
	"fmt"
	"os"

	authservice "rideway/internal/auth-service"
	"rideway/internal/config"
	fleetservice "rideway/internal/fleet-service"
	"rideway/internal/mylogger"
	rideservice "rideway/internal/ride-service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "auth-service":
		err = authservice.Execute(ctx, mylog.With("service", "auth-service"), cfg)
	case "ride-service":
		err = rideservice.Execute(ctx, mylog.With("service", "ride-service"), cfg)
	case "fleet-service":
		err = fleetservice.Execute(ctx, mylog.With("service", "fleet-service"), cfg)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("service exited with error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: app <auth-service|ride-service|fleet-service>")
}
