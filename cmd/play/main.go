package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aliskhannn/codon-quiz-bot/internal/app"
	"github.com/aliskhannn/codon-quiz-bot/internal/config"
	"github.com/aliskhannn/codon-quiz-bot/internal/delivery/tui"
	"github.com/aliskhannn/codon-quiz-bot/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		seed       int64
		configPath string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drill the RNA codon table in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, logFile, seed)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed for reproducible rounds (0 = random)")
	cmd.Flags().StringVar(&configPath, "config", "", "directory containing config.yaml")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of discarding them")

	return cmd
}

func run(ctx context.Context, configPath, logFile string, seed int64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return err
	}

	lg, err := logger.NewFile(cfg, logFile)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	a, err := app.New(cfg, lg, seed)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := tui.New(ctx, a.Quiz)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
