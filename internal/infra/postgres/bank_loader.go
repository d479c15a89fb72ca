package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"timed-quiz/internal/config"
	"timed-quiz/internal/domain"
)

// BankLoader loads the question bank from the questions and quiz_settings tables.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.Bank, error) {
	var rawTotal string
	err := l.pool.QueryRow(ctx, `SELECT total_time FROM quiz_settings WHERE id = 1`).Scan(&rawTotal)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, fmt.Errorf("load settings: %w", err)
	}
	total, ok := config.ParseClock(rawTotal)
	if !ok {
		log.Printf("quiz_settings total_time %q is not HH:MM:SS, using %s", rawTotal, config.DefaultTotalTime)
		total = config.ClockDuration(config.DefaultTotalTime)
	}

	rows, err := l.pool.Query(ctx, `SELECT id, category, question, options, answer FROM questions ORDER BY position`)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	bank := domain.Bank{Settings: domain.Settings{TotalTime: total}}
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Text, &q.Options, &q.Answer); err != nil {
			return domain.Bank{}, fmt.Errorf("scan question: %w", err)
		}
		if err := q.Validate(); err != nil {
			return domain.Bank{}, fmt.Errorf("question %q: %w", q.ID, err)
		}
		bank.Questions = append(bank.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return domain.Bank{}, fmt.Errorf("load questions: %w", err)
	}
	if len(bank.Questions) == 0 {
		return domain.Bank{}, domain.ErrBankNotFound
	}
	return bank, nil
}
