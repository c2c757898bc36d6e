package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/five82/copylist/internal/config"
	"github.com/five82/copylist/internal/copylist"
)

// listClient is the subset of the daemon API the one-shot commands use.
type listClient interface {
	copylist.ListStore
	AddToCopyList(ctx context.Context, path string) error
}

// Command runs a one-shot subcommand against the daemon and writes its
// output to out. Supported: add, ls, rm, clear.
func Command(ctx context.Context, configPath string, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("missing command")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	client, err := copylist.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("copylist client: %w", err)
	}
	return runCommand(ctx, client, args, out)
}

func runCommand(ctx context.Context, client listClient, args []string, out io.Writer) error {
	name, rest := args[0], args[1:]
	switch name {
	case "add":
		return addPaths(ctx, client, rest, out)
	case "ls", "list":
		return listPaths(ctx, client, out)
	case "rm", "remove":
		return removePaths(ctx, client, rest, out)
	case "clear":
		if err := client.ClearCopyList(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "copy list cleared")
		return nil
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func addPaths(ctx context.Context, client listClient, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return errors.New("add: no paths given")
	}
	for _, p := range paths {
		abs, err := absPath(p)
		if err != nil {
			return err
		}
		if err := client.AddToCopyList(ctx, abs); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "added %s\n", abs)
	}
	return nil
}

func removePaths(ctx context.Context, client listClient, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return errors.New("rm: no paths given")
	}
	for _, p := range paths {
		abs, err := absPath(p)
		if err != nil {
			return err
		}
		if err := client.RemoveFromCopyList(ctx, abs); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "removed %s\n", abs)
	}
	return nil
}

func listPaths(ctx context.Context, client listClient, out io.Writer) error {
	paths, err := client.GetCopyList(ctx)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(out, "copy list is empty")
		return nil
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(out, p)
	}
	return nil
}

func absPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}
