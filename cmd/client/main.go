package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/notesync/internal/adapter"
	"github.com/MKhiriev/notesync/internal/broadcast"
	"github.com/MKhiriev/notesync/internal/client"
	"github.com/MKhiriev/notesync/internal/config"
	"github.com/MKhiriev/notesync/internal/crypto"
	"github.com/MKhiriev/notesync/internal/logger"
	"github.com/MKhiriev/notesync/internal/service"
	"github.com/MKhiriev/notesync/internal/store"
	"github.com/MKhiriev/notesync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("notesync").Fatal().Err(err).Msg("error getting configs")
	}
	log := logger.NewClientLogger("notesync", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote, err := adapter.NewHTTPRemoteBackend(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote backend")
	}

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer localStorage.Close()

	hub := broadcast.NewHub(log)
	defer hub.Close()

	sealer := crypto.NewSealer(cfg.App.Passphrase, cfg.App.KeySalt)

	services, err := service.NewClientServices(ctx, localStorage, remote, sealer, hub, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	app, err := client.NewApp(services, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
