package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klazic/trigo/internal/config"
	"github.com/klazic/trigo/internal/logging"
	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/store"
	"github.com/klazic/trigo/internal/streak"
)

var rootCmd = &cobra.Command{
	Use:   "trigo",
	Short: "Trigonometry practice in the terminal",
	Long:  "trigo: bite-sized multiple-choice trigonometry sessions with progress tracking and a daily streak.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides TRIGO_DB env var)")
	pf.String("bank", "", "Question bank directory (default: built-in bank)")
	pf.String("log-file", "", "Write logs to this file, rotated by size")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(versionCmd)
}

// env holds everything a command needs. Close releases it in reverse order.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	bank   *quiz.FileBank
	svc    *service.Services

	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// setup resolves configuration, then opens the logger, the store and the
// bank. Interactive commands pass a nil fallback so logs never reach the
// terminal unless a log file is set.
func setup(cmd *cobra.Command, logFallback io.Writer) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{cfg: cfg}
	logger, closer, err := logging.New(logging.Options{
		File:     cfg.LogFile,
		Level:    cfg.LogLevel,
		Fallback: logFallback,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	e.logger = logger
	e.closers = append(e.closers, closer)

	bank, err := openBank(cfg.BankDir)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open bank: %w", err)
	}
	e.bank = bank

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		e.Close()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, st)

	e.svc = service.New(st, bank, service.Options{
		Logger:      logger,
		SessionSize: cfg.SessionSize,
		Streak: []streak.Option{
			streak.WithLocation(cfg.Location),
			streak.WithLogger(logger),
		},
	})
	logger.Debug("environment ready", "db", cfg.DBPath, "bank", bankName(cfg.BankDir), "bank_version", bank.Version())
	return e, nil
}

func openBank(dir string) (*quiz.FileBank, error) {
	if dir == "" {
		return quiz.DefaultBank()
	}
	return quiz.NewFileBank(os.DirFS(dir))
}

func bankName(dir string) string {
	if dir == "" {
		return "built-in"
	}
	return dir
}
