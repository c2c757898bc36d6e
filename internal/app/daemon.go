package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/copylist/internal/config"
	"github.com/five82/copylist/internal/listd"
	"github.com/five82/copylist/internal/logging"
)

// DaemonOptions configure copylistd.
type DaemonOptions struct {
	ConfigPath string
	Listen     string // overrides api_bind
	LogPath    string // "" logs to stderr; "default" uses the configured log dir
}

// RunDaemon serves the copy list until ctx is cancelled.
func RunDaemon(ctx context.Context, opts DaemonOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	output := strings.TrimSpace(opts.LogPath)
	if output == "default" {
		output = cfg.DaemonLogPath()
	}
	logger, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: output,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	addr := strings.TrimSpace(opts.Listen)
	if addr == "" {
		addr = cfg.APIBind
	}

	srv := listd.NewServer(listd.Options{
		Logger:        logger,
		EnableMetrics: cfg.Metrics,
	})
	logger.Info("copylistd starting", zap.String("addr", addr), zap.Bool("metrics", cfg.Metrics))
	return srv.ListenAndServe(ctx, addr)
}
