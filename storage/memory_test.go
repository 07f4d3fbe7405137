package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	kv := s.Session("abc")
	if _, ok, _ := kv.Get(ctx, KeyContractorName); ok {
		t.Fatal("fresh session should not have a name")
	}

	if err := kv.Set(ctx, KeyContractorName, "Acme Builders"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := kv.Get(ctx, KeyContractorName)
	if err != nil || !ok || got != "Acme Builders" {
		t.Errorf("Get: got (%q, %v, %v)", got, ok, err)
	}

	// Overwrites replace the prior value.
	_ = kv.Set(ctx, KeyContractorName, "Beta Construction")
	got, _, _ = kv.Get(ctx, KeyContractorName)
	if got != "Beta Construction" {
		t.Errorf("overwrite: got %q", got)
	}
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	_ = s.Session("one").Set(ctx, KeyContractorName, "One")
	if _, ok, _ := s.Session("two").Get(ctx, KeyContractorName); ok {
		t.Error("session two should not see session one's values")
	}
}

func TestMemoryStoreKeepsValuesVerbatim(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	desc := "  Commercial GC.\nConcrete & steel crews <Texas>  "
	kv := s.Session("x")
	_ = kv.Set(ctx, KeyCompanyDescription, desc)
	got, _, _ := kv.Get(ctx, KeyCompanyDescription)
	if got != desc {
		t.Errorf("value changed: got %q, want %q", got, desc)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	s.mu.Lock()
	s.now = func() time.Time { return now }
	s.mu.Unlock()

	kv := s.Session("old")
	_ = kv.Set(ctx, KeyContractorName, "Acme")

	now = now.Add(2 * time.Minute)
	if _, ok, _ := kv.Get(ctx, KeyContractorName); ok {
		t.Error("expired session should not return values")
	}
	if n := s.purgeExpired(); n != 1 {
		t.Errorf("purgeExpired: got %d, want 1", n)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kv := s.Session(fmt.Sprintf("s-%d", i%5))
			_ = kv.Set(ctx, KeyContractorName, fmt.Sprintf("name-%d", i))
			_, _, _ = kv.Get(ctx, KeyContractorName)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		if _, ok, _ := s.Session(fmt.Sprintf("s-%d", i)).Get(ctx, KeyContractorName); !ok {
			t.Errorf("session s-%d missing value", i)
		}
	}
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
