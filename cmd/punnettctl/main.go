package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/JKrag/punnett-simulator/internal/platform/config"
	"github.com/JKrag/punnett-simulator/internal/platform/logger"
	"github.com/JKrag/punnett-simulator/internal/platform/metrics"
	"github.com/JKrag/punnett-simulator/internal/render"
	"github.com/JKrag/punnett-simulator/pkg/punnett"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the settings shared by every subcommand.
type app struct {
	cfg     config.Config
	stdout  io.Writer
	stderr  io.Writer
	jsonOut bool
	color   string
	log     *slog.Logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "punnettctl",
		Short:         "Cross cat coat genotypes and inspect the offspring",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			log, err := logger.New(a.cfg.LogLevel, a.cfg.LogFormat, a.stderr)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.Store, "store", a.cfg.Store, "pairing store backend: memory or sqlite")
	flags.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "sqlite database path")
	flags.StringVar(&a.cfg.ReportsDir, "reports-dir", a.cfg.ReportsDir, "directory cross reports are written to")
	flags.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format: text or json")
	flags.BoolVar(&a.jsonOut, "json", false, "print results as JSON")
	flags.StringVar(&a.color, "color", "auto", "styled output: auto, always or never")

	root.AddCommand(
		a.phenotypeCommand(),
		a.gametesCommand(),
		a.crossCommand(),
		a.squareCommand(),
		a.saveCommand(),
		a.pairingsCommand(),
		a.showCommand(),
		a.deleteCommand(),
		a.reportCommand(),
		a.reportsCommand(),
		a.exportCommand(),
		a.serveCommand(),
	)
	return root
}

func (a *app) newClient(ctx context.Context, m *metrics.Metrics) (*punnett.Client, error) {
	client, err := punnett.New(punnett.Options{
		StoreKind:  a.cfg.Store,
		DBPath:     a.cfg.DBPath,
		ReportsDir: a.cfg.ReportsDir,
		Logger:     a.log,
		Metrics:    m,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	return client, nil
}

func (a *app) renderer() *render.Renderer {
	return render.New(a.stdout, a.styled())
}

func (a *app) styled() bool {
	switch a.color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := a.stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) printJSON(value any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
