// shaker-host drives a motorized shaker through a Klipper/Moonraker motion
// controller. It generates G-code motion scripts for orbital, linear and 3D
// shaking patterns, dispatches them with automatic homing recovery, and
// proxies the controller's websocket telemetry to connected frontends.
//
// Usage:
//
//	shaker-host [options]
//
// Options:
//
//	-config string    Configuration file (YAML, optional: built-in defaults otherwise)
//	-listen string    HTTP listen address (overrides config)
//	-logfile string   Log file path (default: stderr)
//
// Examples:
//
//	# Start with built-in defaults
//	shaker-host
//
//	# Start with a config file and custom listen address
//	shaker-host -config shaker.yaml -listen :9000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shaker-host/pkg/config"
	"shaker-host/pkg/log"
	"shaker-host/pkg/moonraker"
	"shaker-host/pkg/relay"
	"shaker-host/pkg/server"
	"shaker-host/pkg/shaker"
)

func main() {
	// Command line flags
	configFile := flag.String("config", "", "Configuration file (YAML)")
	listenAddr := flag.String("listen", "", "HTTP listen address (overrides config)")
	logFile := flag.String("logfile", "", "Log file path (default: stderr)")
	flag.Parse()

	logger := log.New("shaker")
	log.ConfigureFromEnv(logger)
	if *logFile != "" {
		fileLogger, writer, err := log.NewFileLogger("shaker", log.RotationConfig{Filename: *logFile})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer writer.Close()
		logger = fileLogger
	}
	log.SetDefaultLogger(logger)

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	client := moonraker.NewClient(cfg.Controller)
	dispatcher := shaker.New(cfg, client)
	telemetry := relay.New(cfg.Controller)
	srv := server.New(cfg, dispatcher, telemetry)

	logger.Info("shaker host starting, controller at %s", cfg.Controller.BaseURL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received %v, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown: %v", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("server: %v", err)
			os.Exit(1)
		}
	}
}
