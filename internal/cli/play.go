package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/eventlog"
	"timed-quiz/internal/export"
	"timed-quiz/internal/tui"
)

const localClient = "local"

// NewPlayCmd runs one participant's quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var bankPath, format, outDir string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			if bankPath != "" {
				cfg.Bank.Path = bankPath
			}
			if format != "" {
				cfg.Export.Format = format
			}
			if outDir != "" {
				cfg.Export.Dir = outDir
			}
			return runPlay(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "", "question bank file (JSON or YAML)")
	cmd.Flags().StringVar(&format, "format", "", "export format: pdf or json")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for exported reports")
	return cmd
}

func runPlay(ctx context.Context, cfg config.Config) error {
	if !tui.IsTTY() {
		return tui.ErrNotTTY
	}
	exp, err := export.ForFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	// the screen belongs to the TUI; process logs go to a file
	logFile, err := tea.LogToFile(filepath.Join(cfg.Log.Dir, "quiz.log"), "quiz")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	events, err := eventlog.NewLogger(cfg.Log.Dir)
	if err != nil {
		return err
	}

	service := app.NewQuizService(b.registry(), b.bankRepository(cfg.Bank.Path), b.archive(), events, machineOptions(cfg)...)
	machine, err := service.Open(ctx, localClient)
	if err != nil {
		return err
	}
	defer service.Close(localClient)

	return tui.Run(tui.NewModel(service, machine, exp, cfg.Export.Dir))
}
