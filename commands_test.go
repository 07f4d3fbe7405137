package main

import (
	"context"
	"testing"
	"time"

	"sitescope/config"
	"sitescope/source"
	"sitescope/storage"
	"sitescope/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		RFPEndpoint:    config.DefaultRFPEndpoint,
		HTTPTimeout:    time.Second,
		Locale:         "en-US",
		SessionBackend: "memory",
		SessionTTL:     time.Hour,
		ConnectRetries: 1,
	}
}

func TestPickSource(t *testing.T) {
	sources := newSources(testConfig(), utils.NewNopLogger())

	for _, name := range []string{source.Live, source.Fixture} {
		src, err := pickSource(sources, name)
		if err != nil {
			t.Errorf("pickSource(%q): %v", name, err)
			continue
		}
		if src.Name() != name {
			t.Errorf("pickSource(%q) returned %q", name, src.Name())
		}
	}

	if _, err := pickSource(sources, "mock"); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestNewSessionStoreMemory(t *testing.T) {
	store, err := newSessionStore(context.Background(), testConfig(), utils.NewNopLogger())
	if err != nil {
		t.Fatalf("newSessionStore: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*storage.MemoryStore); !ok {
		t.Errorf("expected *storage.MemoryStore, got %T", store)
	}
}

func TestNewSessionStoreUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.SessionBackend = "etcd"
	if _, err := newSessionStore(context.Background(), cfg, utils.NewNopLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestFixtureReportLoads(t *testing.T) {
	results := newResultsService(testConfig(), utils.NewNopLogger())
	page := results.Load(context.Background(), source.NewFixtureSource())
	if page.Error != "" || len(page.Rows) == 0 {
		t.Errorf("fixture report: error %q, rows %d", page.Error, len(page.Rows))
	}
}
