package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewEnricherDisabledWithoutConfig(t *testing.T) {
	cfg := testConfig(t)
	if NewEnricher(cfg) != nil {
		t.Error("enricher should be nil without endpoint and key")
	}
	cfg.LLMEndpoint = "http://localhost:9"
	if NewEnricher(cfg) != nil {
		t.Error("enricher should be nil without an api key")
	}
}

func TestEnricherMonsterReply(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "  A clever plea. I am still hungry.  "}},
			},
		})
	}))
	defer ts.Close()

	cfg := testConfig(t)
	cfg.LLMEndpoint = ts.URL
	cfg.LLMAPIKey = "test-key"
	cfg.LLMTimeout = 2 * time.Second
	e := NewEnricher(cfg)
	if e == nil {
		t.Fatal("enricher should be configured")
	}

	reply, err := e.MonsterReply(context.Background(), 0, "please spare me", 4)
	if err != nil {
		t.Fatalf("MonsterReply: %v", err)
	}
	if reply != "A clever plea. I am still hungry." {
		t.Errorf("reply = %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.Model != cfg.LLMModel {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Error("expected system+user messages")
	}
}

func TestEnricherErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cfg := testConfig(t)
	cfg.LLMEndpoint = ts.URL
	cfg.LLMAPIKey = "test-key"
	e := NewEnricher(cfg)

	if _, err := e.BotPlea(context.Background(), 0); err == nil {
		t.Error("non-2xx status should surface as an error")
	}
}

func TestEnricherEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer ts.Close()

	cfg := testConfig(t)
	cfg.LLMEndpoint = ts.URL
	cfg.LLMAPIKey = "test-key"
	e := NewEnricher(cfg)

	if _, err := e.MonsterReply(context.Background(), 0, "hi", 0); err == nil {
		t.Error("empty choices should surface as an error")
	}
}
