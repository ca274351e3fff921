package botutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sadbox/echobot/pkg/testutil"
)

func TestPingHealthcheck(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	tests := []struct {
		name     string
		env      string
		endpoint string
		wantHits int32
	}{
		{"prod pings", "prod", server.URL, 1},
		{"dev skips", "dev", server.URL, 0},
		{"no endpoint skips", "prod", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits.Store(0)
			b := NewBaseBot(tt.env, tt.endpoint, testutil.DiscardLogger())
			b.PingHealthcheck()
			if got := hits.Load(); got != tt.wantHits {
				t.Errorf("hits = %d, want %d", got, tt.wantHits)
			}
		})
	}
}

func TestPingHealthcheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	b := NewBaseBot("prod", endpoint, testutil.DiscardLogger())
	b.PingHealthcheck() // must not panic
}

func TestMarkReady(t *testing.T) {
	b := NewBaseBot("dev", "", testutil.DiscardLogger())
	if !b.MarkReady() {
		t.Error("first MarkReady = false, want true")
	}
	if b.MarkReady() {
		t.Error("second MarkReady = true, want false")
	}
	if !b.Ready.Load() {
		t.Error("Ready not set")
	}
}
