package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/copylist/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override copylist config path (optional)")
	listen := flag.String("listen", "", "listen address (defaults to api_bind)")
	logPath := flag.String("log", "", `log destination: empty for stderr, "default" for the configured log dir, or a file path`)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := app.RunDaemon(ctx, app.DaemonOptions{
		ConfigPath: *configPath,
		Listen:     *listen,
		LogPath:    *logPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "copylistd: %v\n", err)
		return 1
	}
	return 0
}
