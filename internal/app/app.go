package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/copylist/internal/config"
	"github.com/five82/copylist/internal/copylist"
	"github.com/five82/copylist/internal/logging"
	"github.com/five82/copylist/internal/prefs"
	"github.com/five82/copylist/internal/ui"
	"github.com/five82/copylist/internal/viewsync"
)

// Options configure the TUI client.
type Options struct {
	ConfigPath string
	PrefsPath  string
}

// Run launches the copy list TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	// The TUI owns the terminal, so diagnostics go to a file.
	logger, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.ClientLogPath(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := copylist.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("copylist client: %w", err)
	}

	bridge := ui.NewBridge()
	syncer, err := viewsync.New(viewsync.Options{
		Store:      client,
		Subscriber: client,
		Container:  bridge,
		Reporter:   bridge,
		Logger:     logger.Named("viewsync"),
	})
	if err != nil {
		return err
	}
	defer syncer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("copylist starting", zap.String("api_bind", cfg.APIBind))
	start := func() {
		if err := syncer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("initial load failed", zap.Error(err))
		}
		superviseSubscription(ctx, syncer, logger.Named("supervisor"), defaultRetryInterval)
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Sync:      syncer,
		Bridge:    bridge,
		Logger:    logger.Named("ui"),
		APIBind:   cfg.APIBind,
		LogPath:   cfg.ClientLogPath(),
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
	}, start)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("copylist stopped")
	return err
}
