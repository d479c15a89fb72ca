package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timed-quiz/internal/config"
	"timed-quiz/internal/eventlog"
)

// NewEventsCmd prints the quiz event log.
func NewEventsCmd(configPath *string) *cobra.Command {
	var session, logDir string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print recorded quiz events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			if logDir != "" {
				cfg.Log.Dir = logDir
			}
			return printEvents(cmd.OutOrStdout(), cfg, session)
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "only show events of this session")
	cmd.Flags().StringVar(&logDir, "dir", "", "event log directory (defaults to log.dir)")
	return cmd
}

func printEvents(w io.Writer, cfg config.Config, session string) error {
	l, err := eventlog.NewLogger(cfg.Log.Dir)
	if err != nil {
		return err
	}
	events, err := l.Read(session)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		_, err := fmt.Fprintf(w, "no events in %s\n", l.Path())
		return err
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-18s %s", ev.Time.Format(time.RFC3339), ev.Event, ev.SessionID)
		if ev.Name != "" {
			line += "  " + ev.Name
		}
		if len(ev.Categories) > 0 {
			line += "  [" + strings.Join(ev.Categories, ",") + "]"
		}
		if ev.Total > 0 {
			line += fmt.Sprintf("  %d/%d", ev.Score, ev.Total)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
