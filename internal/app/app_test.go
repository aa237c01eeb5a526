package app

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/stoq/internal/config"
	"github.com/five82/stoq/internal/demoapi"
	"github.com/five82/stoq/internal/stoqapi"
)

func TestNewClient_UsesConfig(t *testing.T) {
	store := demoapi.NewStore()
	store.Load(demoapi.Seed())
	server := httptest.NewServer(demoapi.NewRouter(store, demoapi.Options{Logger: zerolog.Nop()}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.APIURL = server.URL + "/ignored/path"
	cfg.RequestTimeout = time.Second

	client, err := NewClient(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.BaseURL() != server.URL {
		t.Fatalf("BaseURL = %q, want %q", client.BaseURL(), server.URL)
	}
	resp, err := client.ListProducts(context.Background(), stoqapi.ListQuery{Page: 1, Size: 10})
	if err != nil || resp.Total != 30 {
		t.Fatalf("ListProducts = total %d, %v", resp.Total, err)
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	cfg := config.Default()
	cfg.APIURL = "http://"
	if _, err := NewClient(cfg, zerolog.Nop()); err == nil {
		t.Fatalf("NewClient accepted a URL without host")
	}
}
