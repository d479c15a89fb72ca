package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID       string   `bun:"id,pk"`
	Category string   `bun:"category"`
	Question string   `bun:"question"`
	Options  []string `bun:"options,array"`
	Answer   string   `bun:"answer"`
}

type settingsRow struct {
	bun.BaseModel `bun:"table:quiz_settings"`

	ID        int    `bun:"id,pk"`
	TotalTime string `bun:"total_time"`
}

type resultRow struct {
	bun.BaseModel `bun:"table:quiz_results"`

	ID          int64              `bun:"id,pk,autoincrement"`
	SessionID   string             `bun:"session_id"`
	Name        string             `bun:"name"`
	Phone       string             `bun:"phone"`
	Score       int                `bun:"score"`
	Total       int                `bun:"total"`
	CompletedAt time.Time          `bun:"completed_at"`
	Rows        []domain.ReportRow `bun:"rows,type:jsonb"`
}

// SeedBank upserts the bank's questions and settings.
func SeedBank(ctx context.Context, db *bun.DB, bank domain.Bank) error {
	rows := make([]questionRow, 0, len(bank.Questions))
	for _, q := range bank.Questions {
		rows = append(rows, questionRow{
			ID:       q.ID,
			Category: q.Category,
			Question: q.Text,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(rows) > 0 {
			_, err := tx.NewInsert().Model(&rows).
				On("CONFLICT (id) DO UPDATE").
				Set("category = EXCLUDED.category").
				Set("question = EXCLUDED.question").
				Set("options = EXCLUDED.options").
				Set("answer = EXCLUDED.answer").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("seed questions: %w", err)
			}
		}
		settings := settingsRow{ID: 1, TotalTime: app.FormatClock(int(bank.Settings.TotalTime / time.Second))}
		_, err := tx.NewInsert().Model(&settings).
			On("CONFLICT (id) DO UPDATE").
			Set("total_time = EXCLUDED.total_time").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		return nil
	})
}

// ReportArchive stores exported reports in quiz_results.
type ReportArchive struct {
	db *bun.DB
}

func NewReportArchive(db *bun.DB) *ReportArchive {
	return &ReportArchive{db: db}
}

func (a *ReportArchive) Archive(ctx context.Context, report domain.Report) error {
	row := resultRow{
		SessionID:   report.SessionID,
		Name:        report.Name,
		Phone:       report.Phone,
		Score:       report.Score,
		Total:       report.Total,
		CompletedAt: report.CompletedAt,
		Rows:        report.Rows,
	}
	if _, err := a.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Results lists archived reports for a session id, oldest first.
func (a *ReportArchive) Results(ctx context.Context, sessionID string) ([]domain.Report, error) {
	var rows []resultRow
	err := a.db.NewSelect().Model(&rows).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	reports := make([]domain.Report, 0, len(rows))
	for _, r := range rows {
		reports = append(reports, domain.Report{
			SessionID:   r.SessionID,
			Name:        r.Name,
			Phone:       r.Phone,
			Score:       r.Score,
			Total:       r.Total,
			CompletedAt: r.CompletedAt,
			Rows:        r.Rows,
		})
	}
	return reports, nil
}
