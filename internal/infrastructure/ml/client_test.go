package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ShoppingAssistant/internal/domain"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nutrition" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing api key")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["name"] != "Chicken Breast" || body["category"] != "meat" {
			t.Errorf("unexpected request %v", body)
		}
		_, _ = w.Write([]byte(`{"calories_per_100g": 165, "protein_per_100g": 31, "fats_per_100g": 3.6}`))
	}))
	defer server.Close()

	got, err := NewClient(server.URL, "key").Analyze(context.Background(), domain.Product{ID: "m1", Name: "Chicken Breast", Category: "meat"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Calories == nil || *got.Calories != 165 || got.Protein == nil || *got.Protein != 31 {
		t.Fatalf("unexpected nutrition %+v", got)
	}
	if got.Carbs != nil || got.Fiber != nil {
		t.Fatalf("missing fields must stay nil: %+v", got)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("", "").Analyze(context.Background(), domain.Product{ID: "x"}); err == nil {
		t.Fatalf("expected misconfiguration error")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	if _, err := NewClient(server.URL, "").Analyze(context.Background(), domain.Product{ID: "x"}); err == nil {
		t.Fatalf("expected status error")
	}
}
