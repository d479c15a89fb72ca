package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/memory"
)

func TestBankRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{BankLoader: memory.NewStaticBankLoader(sampleBank())}
	repo := NewBankRepository(client, loader, time.Minute)

	first, err := repo.GetBank(context.Background())
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists(questionsKey) || !mr.Exists(settingsKey) {
		t.Fatalf("expected bank keys written")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetBank(context.Background())
	if err != nil {
		t.Fatalf("get cached bank: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Settings.TotalTime != first.Settings.TotalTime || len(cached.Questions) != 2 {
		t.Fatalf("unexpected cached bank %+v", cached)
	}
	if cached.Questions[0].ID != "q1" || cached.Questions[0].Answer != "4" {
		t.Fatalf("expected sorted round-tripped questions, got %+v", cached.Questions)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) (domain.Bank, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}

func sampleBank() domain.Bank {
	return domain.Bank{
		Settings: domain.Settings{TotalTime: 90 * time.Second},
		Questions: []domain.Question{
			{ID: "q2", Category: "Hard", Text: "Symbol for tungsten?", Options: []string{"Tu", "W"}, Answer: "W"},
			{ID: "q1", Category: "Easy", Text: "What is 2 + 2?", Options: []string{"3", "4"}, Answer: "4"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
