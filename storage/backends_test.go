package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"sitescope/utils"
)

// Backend tests run only when a live service is configured, e.g.
//
//	SITESCOPE_TEST_REDIS_ADDR=localhost:6379
//	SITESCOPE_TEST_POSTGRES_DSN="host=localhost user=sitescope password=sitescope dbname=sitescope sslmode=disable"

func testRetry() *utils.RetryConfig {
	return &utils.RetryConfig{MaxAttempts: 1, Logger: utils.NewNopLogger()}
}

func exerciseStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	kv := store.Session(id)
	if _, ok, err := kv.Get(ctx, KeyContractorName); err != nil || ok {
		t.Fatalf("fresh session: got ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, KeyContractorName, "Acme"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, KeyContractorName, "Acme Builders"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, ok, err := kv.Get(ctx, KeyContractorName)
	if err != nil || !ok || got != "Acme Builders" {
		t.Errorf("Get: got (%q, %v, %v)", got, ok, err)
	}
	if _, ok, _ := store.Session(uuid.NewString()).Get(ctx, KeyContractorName); ok {
		t.Error("other session should be empty")
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SITESCOPE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SITESCOPE_TEST_REDIS_ADDR not set")
	}

	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, TTL: time.Minute}, testRetry())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("SITESCOPE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SITESCOPE_TEST_POSTGRES_DSN not set")
	}

	store, err := NewPostgresStore(context.Background(), dsn, time.Hour, testRetry())
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
	if _, err := store.PurgeExpired(context.Background()); err != nil {
		t.Errorf("PurgeExpired: %v", err)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	exerciseStore(t, store)
}
