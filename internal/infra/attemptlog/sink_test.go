package attemptlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/codon-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/codon-quiz-bot/internal/infra/postgres/repository"
)

type memStore struct {
	rows     []entities.Attempt
	deadline bool
}

func (m *memStore) Append(ctx context.Context, a entities.Attempt) error {
	_, m.deadline = ctx.Deadline()
	m.rows = append(m.rows, a)
	return nil
}

func (m *memStore) HardestCodons(context.Context, int) ([]repository.CodonMisses, error) {
	return []repository.CodonMisses{{Codon: "AUG", Misses: 1}}, nil
}

func attempt() entities.Attempt {
	return entities.NewAttempt("s", "r", "AUG", "M", true, time.Now())
}

func TestLazySinkOpensOnce(t *testing.T) {
	store := &memStore{}
	opens, closes := 0, 0
	sink := newLazySink(func(context.Context) (Store, func(), error) {
		opens++
		return store, func() { closes++ }, nil
	}, 0)

	if opens != 0 {
		t.Fatal("sink opened before first use")
	}

	for range 3 {
		if err := sink.Append(context.Background(), attempt()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := sink.HardestCodons(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	if opens != 1 {
		t.Fatalf("opened %d times, want 1", opens)
	}
	if len(store.rows) != 3 {
		t.Fatalf("stored %d rows", len(store.rows))
	}

	sink.Close()
	if closes != 1 {
		t.Fatalf("closed %d times", closes)
	}
}

func TestLazySinkRetriesFailedOpen(t *testing.T) {
	store := &memStore{}
	opens := 0
	sink := newLazySink(func(context.Context) (Store, func(), error) {
		opens++
		if opens == 1 {
			return nil, nil, errors.New("dial tcp: connection refused")
		}
		return store, func() {}, nil
	}, 0)

	if err := sink.Append(context.Background(), attempt()); err == nil {
		t.Fatal("expected error from failed open")
	}
	if err := sink.Append(context.Background(), attempt()); err != nil {
		t.Fatalf("second append: %v", err)
	}

	if opens != 2 {
		t.Fatalf("opened %d times, want 2", opens)
	}
	if len(store.rows) != 1 {
		t.Fatalf("stored %d rows", len(store.rows))
	}
}

func TestLazySinkTimeout(t *testing.T) {
	store := &memStore{}
	sink := newLazySink(func(context.Context) (Store, func(), error) {
		return store, func() {}, nil
	}, time.Second)

	if err := sink.Append(context.Background(), attempt()); err != nil {
		t.Fatal(err)
	}
	if !store.deadline {
		t.Fatal("append context has no deadline")
	}
}

func TestLazySinkCloseUnopened(t *testing.T) {
	sink := newLazySink(func(context.Context) (Store, func(), error) {
		t.Fatal("Close opened the store")
		return nil, nil, nil
	}, 0)
	sink.Close()
}

func TestNopSink(t *testing.T) {
	var sink NopSink

	if err := sink.Append(context.Background(), attempt()); err != nil {
		t.Fatal(err)
	}
	if _, err := sink.HardestCodons(context.Background(), 5); !errors.Is(err, ErrLogDisabled) {
		t.Fatalf("error = %v", err)
	}
	sink.Close()
}
