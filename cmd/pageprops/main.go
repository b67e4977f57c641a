// Command pageprops edits the properties of one page in a content site list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pageprops/internal/client/cli"
	"github.com/dmitrijs2005/pageprops/internal/client/client"
	"github.com/dmitrijs2005/pageprops/internal/client/config"
	"github.com/dmitrijs2005/pageprops/internal/client/services"
	"github.com/dmitrijs2005/pageprops/internal/filex"
	"github.com/dmitrijs2005/pageprops/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pageprops:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("%w\n\nUsage of pageprops:\n%s", err, config.Usage())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w\n\nUsage of pageprops:\n%s", err, config.Usage())
	}
	mode, err := cfg.TransportMode()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	if _, err := filex.EnsureParentDir(cfg.DBPath); err != nil {
		return err
	}
	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	apiClient, err := client.NewRESTClient(cfg.SiteURL,
		client.WithAccessToken(cfg.AccessToken),
		client.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return err
	}

	svc := services.NewPropertyService(apiClient, db, services.Target{
		SiteURL:      cfg.SiteURL,
		ListTitle:    cfg.ListTitle,
		ListID:       cfg.ListID,
		ItemID:       cfg.ItemID,
		SharedLockID: cfg.SharedLockID,
	}, log)

	log.Debug(ctx, "starting", "site", cfg.SiteURL, "list", cfg.ListTitle, "item", cfg.ItemID, "mode", mode.String())

	app := cli.NewApp(svc, log, cli.Options{
		Mode:          mode,
		CheckInterval: cfg.OnlineCheckInterval,
	})
	return app.Run(ctx)
}
