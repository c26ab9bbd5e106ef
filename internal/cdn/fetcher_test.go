package cdn

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEmojiURLTemplate(t *testing.T) {
	fetcher := NewFetcher(nil, "https://cdn.example.com/emojis/")
	got := fetcher.EmojiURL("123456", 128)
	want := "https://cdn.example.com/emojis/123456.png?size=128&quality=lossless"
	if got != want {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestFetchReturnsBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/99.png" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("size") != "64" || r.URL.Query().Get("quality") != "lossless" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	fetcher := NewFetcher(NewClient(time.Second), upstream.URL)
	body, err := fetcher.Fetch(context.Background(), "99", 64)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	defer body.Close()

	payload, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(payload) != "png-bytes" {
		t.Fatalf("payload mismatch: %s", string(payload))
	}
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	fetcher := NewFetcher(NewClient(time.Second), upstream.URL)
	if _, err := fetcher.Fetch(context.Background(), "404", 128); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}
