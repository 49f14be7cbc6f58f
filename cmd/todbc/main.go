package main

import (
	"context"
	"fmt"
	"os"

	"todbc/internal/config"
	"todbc/internal/core"
	"todbc/internal/data"
	"todbc/internal/drivers"
	"todbc/internal/logger"
	"todbc/internal/metrics"
	"todbc/internal/odbcapi"
	"todbc/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Arguments
	if err := service.ParseArgs(os.Stdout, os.Args); err != nil {
		return service.ExitUsage
	}

	// 2. Load Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\nCheck .env file or ODBCDIAG_* environment variables.\n", err)
		return service.ExitFailure
	}

	// 3. Initialize Logger
	logFile, err := logger.Init(cfg.LogDir)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		return service.ExitFailure
	}
	defer logFile.Close()
	logger.Info.Printf("Starting todbc (backend %s)", cfg.Backend)

	// 4. Backend
	api, err := openBackend(cfg)
	if err != nil {
		fmt.Printf("Failed to open %s backend: %v\n", cfg.Backend, err)
		logger.Error.Printf("open backend: %v", err)
		return service.ExitFailure
	}

	// 5. Decorators
	reg := prometheus.NewRegistry()
	api = service.WithLogging(metrics.Instrument(api, reg))

	// 6. Run
	console := service.NewConsole(os.Stdin, os.Stdout)
	status := service.NewDiagnoser(api, console, os.Stdout, os.Args[0], cfg.Query).Run()

	// 7. Metrics
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			logger.Error.Printf("write metrics textfile: %v", err)
		}
	}

	logger.Info.Printf("todbc finished with status %d", status)
	return status
}

func openBackend(cfg *config.Config) (core.CallLevelAPI, error) {
	if cfg.Backend == config.BackendNative {
		return odbcapi.Open()
	}

	var cryptoSvc *data.EncryptionService
	if cfg.Key != "" {
		svc, err := data.NewEncryptionService(cfg.Key)
		if err != nil {
			return nil, err
		}
		cryptoSvc = svc
	}

	resolver := data.NewSourceResolver(cfg.Sources, cryptoSvc)
	logger.Info.Printf("bridge drivers: %v", drivers.Registered())
	return data.NewBridge(context.Background(), resolver, data.WithTranslator(drivers.Translate)), nil
}
