package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory/internal/config"
	"github.com/mamadbah2/inventory/internal/console"
	"github.com/mamadbah2/inventory/internal/menu"
	"github.com/mamadbah2/inventory/internal/repository/mongodb"
	"github.com/mamadbah2/inventory/internal/repository/sheets"
	inventorysvc "github.com/mamadbah2/inventory/internal/service/inventory"
	whatsappsvc "github.com/mamadbah2/inventory/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/inventory/pkg/clients/whatsapp"
	"github.com/mamadbah2/inventory/pkg/logger"
)

func main() {
	out := console.New(os.Stdout)

	cfg, err := config.Load("")
	if err != nil {
		out.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	baseLogger, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		out.Error("Unable to open log file %s: %v", cfg.Log.File, err)
		os.Exit(1)
	}
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cleanup := &closers{}
	defer cleanup.run()

	// An interrupt while the menus block on input is a quit request.
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			baseLogger.Info("shutdown signal received")
			fmt.Fprintln(os.Stdout)
			out.Info("Quitting the application...")
			cleanup.run()
			stop()
			_ = baseLogger.Sync()
			os.Exit(0)
		case <-done:
		}
	}()

	out.Banner()

	sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
	if err != nil {
		out.Error("Unable to connect to Google Sheets: %v", err)
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	opts := []inventorysvc.Option{
		inventorysvc.WithTimeout(cfg.Sheets.Timeout),
		inventorysvc.WithWorksheet(cfg.Sheets.Worksheet),
	}

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB)
		cancel()
		if err != nil {
			baseLogger.Warn("audit trail disabled", zap.Error(err))
			out.Warn("Audit trail disabled: %v", err)
		} else {
			cleanup.add(func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mongoRepo.Close(closeCtx); err != nil {
					baseLogger.Error("failed to close mongodb connection", zap.Error(err))
				}
			})
			opts = append(opts, inventorysvc.WithRecorder(mongoRepo))
			baseLogger.Info("mongodb audit trail enabled", zap.String("collection", cfg.MongoDB.Collection))
		}
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		notifier := whatsappsvc.NewChangeNotifier(cfg.WhatsApp, whatsClient, logger.Named(baseLogger, "svc.whatsapp"))
		opts = append(opts, inventorysvc.WithNotifier(notifier))
		baseLogger.Info("whatsapp change notifications enabled")
	}

	inventory := inventorysvc.NewService(sheetsRepo, logger.Named(baseLogger, "svc.inventory"), opts...)
	if err := inventory.Prepare(ctx); err != nil {
		baseLogger.Error("failed to prepare worksheet", zap.Error(err))
		out.Error("Failed to open the inventory worksheet: %s", sheets.Describe(err))
	}

	app := menu.New(inventory, console.NewPrompter(os.Stdin, out), out, logger.Named(baseLogger, "menu"))
	if err := app.Run(ctx); err != nil {
		baseLogger.Error("menu loop stopped", zap.Error(err))
	}

	close(done)
	wg.Wait()
	stop()
}

// closers runs shutdown hooks once, newest first, from either the normal
// exit path or the signal watcher.
type closers struct {
	mu   sync.Mutex
	fns  []func()
	done bool
}

func (c *closers) add(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
}

func (c *closers) run() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return
	}
	c.done = true
	for i := len(c.fns) - 1; i >= 0; i-- {
		c.fns[i]()
	}
}
