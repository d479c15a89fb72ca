package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
	pgstore "timed-quiz/internal/infra/postgres"
	pgmigrations "timed-quiz/internal/infra/postgres/migrations"
	infraredis "timed-quiz/internal/infra/redis"
)

type idleScheduler struct{}

func (idleScheduler) Every(time.Duration, func()) func() { return func() {} }

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := migrateAndSeed(t, ctx, pgURL, sampleBank())
	defer db.Close()

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgstore.NewBankLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	bankRepo := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	redisArchive := infraredis.NewReportArchive(redisClient, 10)
	pgArchive := pgstore.NewReportArchive(db)
	service := app.NewQuizService(sessionStore, bankRepo, app.MultiArchive{redisArchive, pgArchive}, nil,
		app.WithScheduler(idleScheduler{}))

	bank, err := service.Bank(ctx)
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if len(bank.Questions) != 3 || bank.Settings.TotalTime != 90*time.Second {
		t.Fatalf("unexpected bank from postgres: %+v", bank)
	}

	m, err := service.Open(ctx, "client-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer service.Close("client-1")

	if err := m.SetName("Alice"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := m.SetPhone("0123456789"); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	if err := m.ConfirmIntake(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := m.SetCategory("Hard", false); err != nil {
		t.Fatalf("disable hard: %v", err)
	}
	if err := m.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := m.Snapshot()
	if snap.Total != 2 {
		t.Fatalf("expected the two Easy questions, got %d", snap.Total)
	}
	correct := map[string]string{"q1": "4", "q2": "Blue"}
	if err := m.SelectAnswer(snap.Current.ID, correct[snap.Current.ID]); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := m.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := service.Finish(ctx, m)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if report.Score != 1 || report.Total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", report.Score, report.Total)
	}

	recent, err := redisArchive.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].SessionID != report.SessionID {
		t.Fatalf("expected report in redis, got %+v", recent)
	}
	stored, err := pgArchive.Results(ctx, report.SessionID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(stored) != 1 || len(stored[0].Rows) != 2 || stored[0].Name != "Alice" {
		t.Fatalf("expected report in postgres, got %+v", stored)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateAndSeed(t *testing.T, ctx context.Context, dsn string, bank domain.Bank) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := pgstore.SeedBank(ctx, db, bank); err != nil {
		t.Fatalf("seed bank: %v", err)
	}
	return db
}

func sampleBank() domain.Bank {
	return domain.Bank{
		Settings: domain.Settings{TotalTime: 90 * time.Second},
		Questions: []domain.Question{
			{ID: "q1", Category: "Easy", Text: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4"},
			{ID: "q2", Category: "Easy", Text: "Colour of a clear sky?", Options: []string{"Blue", "Green"}, Answer: "Blue"},
			{ID: "q3", Category: "Hard", Text: "Capital of Peru?", Options: []string{"Lima", "Quito", "Bogota"}, Answer: "Lima"},
		},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
