package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tyv-platform/resource-service/cmd/flags"
	"github.com/tyv-platform/resource-service/httpserver"
	"github.com/tyv-platform/resource-service/repository"
	"github.com/tyv-platform/resource-service/resource"
	"github.com/tyv-platform/resource-service/storage"
)

var serverFlags = append([]cli.Flag{
	flags.ListenAddrFlag,
	flags.StorageLocationFlag,
	flags.DatabasePathFlag,
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "resource-service",
		Usage: "Serve the UUID-addressed resource storage API",
		Flags: serverFlags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String(flags.ListenAddrFlag.Name)
			storageLocation := cCtx.String(flags.StorageLocationFlag.Name)
			dbPath := cCtx.String(flags.DatabasePathFlag.Name)

			logger := flags.SetupLogger(cCtx)

			logger.Info("Opening metadata database", "path", dbPath)
			repo, err := repository.NewBoltRepository(repository.BoltConfig{Path: dbPath})
			if err != nil {
				logger.Error("Failed to open metadata database", "err", err)
				return err
			}
			defer repo.Close()

			logger.Info("Creating blob storage backend", "location", storageLocation)
			factory := storage.NewBackendFactory(logger)
			blobs, err := factory.BackendFor(context.Background(), storageLocation)
			if err != nil {
				logger.Error("Failed to create storage backend", "err", err)
				return err
			}

			engine := resource.NewEngine(blobs, repo, logger)
			handler := httpserver.NewHandler(engine, logger)

			cfg := flags.ConfigureServer(cCtx, logger, listenAddr)
			server, err := httpserver.New(cfg, handler, blobs)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
