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
	prefsPath := flag.String("prefs", "", "override TUI preferences path (optional)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: copylist [flags] [add <path>... | ls | rm <path>... | clear]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	if args := flag.Args(); len(args) > 0 {
		err = app.Command(ctx, *configPath, args, os.Stdout)
	} else {
		err = app.Run(ctx, app.Options{ConfigPath: *configPath, PrefsPath: *prefsPath})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "copylist: %v\n", err)
		return 1
	}
	return 0
}
