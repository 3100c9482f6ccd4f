package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestWebhookSenderDeliversOnce(t *testing.T) {
	var (
		mu  sync.Mutex
		got []Payload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p := &Payload{ID: "abc", Type: "url", Content: "https://example.com", Format: "png", Timestamp: 1}

	for i := 0; i < 2; i++ {
		if err := w.Send(context.Background(), p); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("delivered %d payloads, want 1", len(got))
	}
	if got[0] != *p {
		t.Errorf("payload = %+v, want %+v", got[0], *p)
	}
}

func TestWebhookSenderDisabled(t *testing.T) {
	w := NewWebhookSender("", slog.Default())
	if w.Enabled() {
		t.Error("Enabled() = true for empty URL")
	}
	if err := w.Send(context.Background(), &Payload{ID: "x"}); err != nil {
		t.Errorf("Send() error = %v", err)
	}
}

func TestWebhookSenderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	w := NewWebhookSender(url, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := w.Send(context.Background(), &Payload{ID: "y"}); err == nil {
		t.Error("Send() to closed server = nil error")
	}
}

func TestWebhookSenderNilLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhookSender(srv.URL, nil)
	if err := w.Send(context.Background(), &Payload{ID: "z"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	// duplicate path logs too
	if err := w.Send(context.Background(), &Payload{ID: "z"}); err != nil {
		t.Fatalf("second Send() error = %v", err)
	}
}
