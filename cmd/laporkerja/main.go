package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/bootstrap"
	"github.com/bryanwahyu/laporkerja/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "laporkerja: %v\n", err)
		os.Exit(1)
	}
}

// run satu invocation CLI; app selalu ditutup walau command gagal
func run(ctx context.Context, args []string, out io.Writer) error {
	c := &cli{}
	defer c.close()

	cmd := newRootCommand(c)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	return cmd.ExecuteContext(ctx)
}

// cli state bersama antar subcommand
type cli struct {
	configPath string
	statePath  string
	verbose    bool
	jsonOut    bool

	app *bootstrap.App
}

func newRootCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laporkerja",
		Short: "Laporan pekerjaan lapangan dari foto",
		Long: `laporkerja menganalisis foto pekerjaan lapangan menjadi laporan harian
lalu mengirimkannya lewat WhatsApp, email, spreadsheet, cloud, atau PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "config.yaml", "File config YAML")
	cmd.PersistentFlags().StringVar(&c.statePath, "state", "", "File state sqlite (default di user config dir)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log detail ke stderr")
	cmd.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Output JSON")

	cmd.AddCommand(
		newSubmitCmd(c),
		newStateCmd(c),
		newResetCmd(c),
		newRestoreCmd(c),
		newDismissCmd(c),
		newHistoryCmd(c),
		newSettingsCmd(c),
		newLocationCmd(c),
		newDeliverCmd(c),
	)
	return cmd
}

func (c *cli) open(ctx context.Context) error {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.statePath != "" {
		cfg.State.Path = c.statePath
	}
	if cfg.State.Path == "" {
		path, err := defaultStatePath()
		if err != nil {
			return err
		}
		cfg.State.Path = path
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	logger, err := bootstrap.NewLogger(level)
	if err != nil {
		return err
	}

	app, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return err
	}
	c.app = app
	return nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func defaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	dir = filepath.Join(dir, "laporkerja")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(dir, "state.db"), nil
}

func (c *cli) logger() *zap.Logger {
	if c.app == nil {
		return zap.NewNop()
	}
	return c.app.Logger
}
