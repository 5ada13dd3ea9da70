package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("chat_id") != "42" || r.PostForm.Get("text") != "Shopping list for bbq!" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
	}))
	defer server.Close()

	n := NewNotifier("TOKEN", "42")
	n.apiBase = server.URL
	n.client = server.Client()
	if err := n.Publish(context.Background(), "Shopping list for bbq!"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestPublishErrors(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "42").Publish(context.Background(), "x"); err == nil {
		t.Fatalf("expected misconfiguration error")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewNotifier("TOKEN", "42")
	n.apiBase = server.URL
	if err := n.Publish(context.Background(), "x"); err == nil {
		t.Fatalf("expected status error")
	}
}
