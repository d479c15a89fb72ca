package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"timed-quiz/internal/app"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	m := app.NewMachine(sampleBank())
	defer m.Close()
	store.Put("client-1", m)
	if !mr.Exists("quiz:session:client-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, ok := store.Get("client-1"); !ok || got != m {
		t.Fatalf("expected machine kept in process")
	}

	store.Delete("client-1")
	if mr.Exists("quiz:session:client-1") {
		t.Fatalf("expected redis key to be removed")
	}
}
