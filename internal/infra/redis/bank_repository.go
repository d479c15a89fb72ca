package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"timed-quiz/internal/domain"
)

// BankLoader fetches the question bank from a backing store (file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.Bank, error)
}

// BankRepository caches the bank in Redis and falls back to a loader on a miss.
// Questions are stored as: HSET quiz:bank:questions {questionID} {json}
// Settings are stored as:  HSET quiz:bank:settings totalSeconds {n}
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	questionsKey = "quiz:bank:questions"
	settingsKey  = "quiz:bank:settings"
)

func (r *BankRepository) GetBank(ctx context.Context) (domain.Bank, error) {
	if bank, ok := r.fromCache(ctx); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return domain.Bank{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		pipe.Del(ctx, questionsKey, settingsKey)
		for _, q := range bank.Questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return domain.Bank{}, err
			}
			pipe.HSet(ctx, questionsKey, q.ID, raw)
		}
		pipe.HSet(ctx, settingsKey, "totalSeconds", int64(bank.Settings.TotalTime/time.Second))
		if ttl > 0 {
			pipe.Expire(ctx, questionsKey, ttl)
			pipe.Expire(ctx, settingsKey, ttl)
		}
		// best-effort: a failed fill only costs another load
		_, _ = pipe.Exec(ctx)

		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context) (domain.Bank, bool) {
	settings, err := r.client.HGetAll(ctx, settingsKey).Result()
	if err != nil || len(settings) == 0 {
		return domain.Bank{}, false
	}
	questions, err := r.client.HGetAll(ctx, questionsKey).Result()
	if err != nil {
		return domain.Bank{}, false
	}
	return buildBankFromCache(settings, questions)
}

func buildBankFromCache(settings, questions map[string]string) (domain.Bank, bool) {
	seconds, err := strconv.ParseInt(settings["totalSeconds"], 10, 64)
	if err != nil {
		return domain.Bank{}, false
	}
	bank := domain.Bank{
		Settings:  domain.Settings{TotalTime: time.Duration(seconds) * time.Second},
		Questions: make([]domain.Question, 0, len(questions)),
	}
	for _, raw := range questions {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return domain.Bank{}, false
		}
		bank.Questions = append(bank.Questions, q)
	}
	// hash order is random; keep the bank stable for callers
	sort.Slice(bank.Questions, func(i, j int) bool {
		return bank.Questions[i].ID < bank.Questions[j].ID
	})
	return bank, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
