package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchsync/pitchsync/internal/app"
	"github.com/pitchsync/pitchsync/internal/config"
	"github.com/pitchsync/pitchsync/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close(context.Background()) }()

	switch os.Args[1] {
	case "update":
		err = runUpdate(ctx, application, os.Args[2:])
	case "stats":
		err = runStats(ctx, application)
	case "test":
		err = runTest(ctx, application)
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func runUpdate(ctx context.Context, application *app.App, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	seasonsFlag := fs.String("seasons", "", "comma-separated 4-digit seasons, empty means the current year")
	force := fs.Bool("force", false, "refetch and overwrite records that already exist")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var seasons []string
	if *seasonsFlag != "" {
		seasons = splitSeasons(*seasonsFlag)
	}

	summary, err := application.SyncService.UpdateData(ctx, seasons, *force)
	if err != nil {
		return err
	}

	return printJSON(summary)
}

func runStats(ctx context.Context, application *app.App) error {
	stats, err := application.QueryService.DatabaseStats(ctx)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func runTest(ctx context.Context, application *app.App) error {
	report := application.StatusService.TestEndpoints(ctx)
	if err := printJSON(report); err != nil {
		return err
	}
	if !report.OverallOK {
		return fmt.Errorf("one or more endpoints are unreachable")
	}
	return nil
}

func splitSeasons(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printJSON(v any) error {
	data, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <update|stats|test> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s update --seasons 2024,2023 --force\n", prog)
	fmt.Fprintf(os.Stderr, "  %s stats\n", prog)
	fmt.Fprintf(os.Stderr, "  %s test\n", prog)
}
