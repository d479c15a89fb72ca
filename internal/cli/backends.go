package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/file"
	"timed-quiz/internal/infra/memory"
	pgstore "timed-quiz/internal/infra/postgres"
	redisstore "timed-quiz/internal/infra/redis"
)

// backends holds the optional external stores named in the config.
type backends struct {
	cfg   config.Config
	redis *redis.Client
	pool  *pgxpool.Pool
	db    *bun.DB
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{cfg: cfg}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pool = pool
		b.db = openBunDB(cfg.Postgres.URL)
	}
	return b, nil
}

func openBunDB(url string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
}

// bankLoader prefers Postgres and falls back to the bank file.
func (b *backends) bankLoader(path string) memory.BankLoader {
	if b.pool != nil {
		return pgstore.NewBankLoader(b.pool)
	}
	return file.NewBankLoader(path)
}

func (b *backends) bankRepository(path string) app.BankRepository {
	ttl := config.TTLDuration(b.cfg.Bank.TTL, 10*time.Minute)
	loader := b.bankLoader(path)
	if b.redis != nil {
		return redisstore.NewBankRepository(b.redis, loader, ttl)
	}
	return memory.NewBankRepository(loader, ttl)
}

func (b *backends) registry() app.MachineRegistry {
	if b.redis != nil {
		return redisstore.NewSessionStore(b.redis, config.TTLDuration(b.cfg.Redis.TTL, 10*time.Minute))
	}
	return memory.NewSessionStore()
}

// archive returns nil when no store is configured.
func (b *backends) archive() app.ReportArchive {
	var archives app.MultiArchive
	if b.redis != nil {
		archives = append(archives, redisstore.NewReportArchive(b.redis, b.cfg.Redis.ReportLimit))
	}
	if b.db != nil {
		archives = append(archives, pgstore.NewReportArchive(b.db))
	}
	if len(archives) == 0 {
		return nil
	}
	return archives
}

func machineOptions(cfg config.Config) []app.Option {
	return []app.Option{app.WithTickPeriod(config.TTLDuration(cfg.Quiz.Tick, app.DefaultTickPeriod))}
}
