package memory

import (
	"testing"

	"timed-quiz/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	m := app.NewMachine(sampleBank())
	defer m.Close()
	store.Put("client-1", m)
	if got, ok := store.Get("client-1"); !ok || got != m {
		t.Fatalf("expected machine present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 machine, got %d", store.Len())
	}

	store.Delete("client-1")
	if _, ok := store.Get("client-1"); ok {
		t.Fatalf("expected machine removed")
	}
	store.Delete("client-1")
}
