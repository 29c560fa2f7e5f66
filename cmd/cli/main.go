package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/swipecatalog/internal/buildinfo"
	"github.com/dmitrijs2005/swipecatalog/internal/client/cli"
	"github.com/dmitrijs2005/swipecatalog/internal/client/client"
	"github.com/dmitrijs2005/swipecatalog/internal/client/config"
	"github.com/dmitrijs2005/swipecatalog/internal/client/imagecache"
	"github.com/dmitrijs2005/swipecatalog/internal/client/reachability"
	"github.com/dmitrijs2005/swipecatalog/internal/client/repositories/records"
	"github.com/dmitrijs2005/swipecatalog/internal/client/services"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	store, err := records.Open(ctx, cfg.StoreBackend, cfg.DataDir, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	api := client.NewHTTPClient(cfg.APIBaseURL, &http.Client{})

	cache, err := imagecache.New(cfg.ImageCacheSize)
	if err != nil {
		return err
	}

	queue, err := services.NewOfflineQueue(store, api, cfg.UploadWorkers, logger)
	if err != nil {
		return err
	}
	defer queue.Close()

	monitor := reachability.New(api, cfg.OnlineCheckInterval, cfg.ProbeTimeout, logger)
	engine := services.NewCatalogEngine(api, services.NewFavoritesLedger(store, logger), queue, monitor, logger)
	defer engine.Wait()

	// stop probing before waiting for background syncs
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := cli.NewApp(cli.Deps{
		Catalog: engine,
		Queue:   queue,
		Conn:    monitor,
		Images:  imagecache.NewLoader(cache, api, logger),
		Logger:  logger,
	}, os.Stdin, os.Stdout)

	engine.OnChange(app.OnCatalogChange)

	if err := monitor.Subscribe(engine.HandleReachability(ctx)); err != nil {
		return err
	}
	if err := monitor.Subscribe(app.OnReachability); err != nil {
		return err
	}

	// the first probe is synchronous, so a queue left from a previous run
	// is drained right away when the API is reachable
	monitor.Start(ctx)

	app.Run(ctx)
	return nil
}
