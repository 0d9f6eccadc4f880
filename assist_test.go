package main

import (
	"testing"
	"time"
)

func TestAssistBookCooldown(t *testing.T) {
	cfg := testConfig(t)
	b := NewAssistBook(cfg)
	now := time.Now()

	if !b.Add("p_1", "p_2", now) {
		t.Fatal("first beacon should be accepted")
	}
	if b.Add("p_1", "p_3", now.Add(time.Second)) {
		t.Error("beacon inside cooldown should be refused")
	}
	if !b.Add("p_1", "p_3", now.Add(cfg.AssistCooldown)) {
		t.Error("beacon after cooldown should be accepted")
	}
	// cooldowns are per spectator
	if !b.Add("p_9", "p_2", now.Add(time.Second)) {
		t.Error("another spectator's beacon should be independent")
	}
}

func TestAssistBookOrdersOldestFirst(t *testing.T) {
	cfg := testConfig(t)
	b := NewAssistBook(cfg)
	now := time.Now()

	b.Add("p_1", "p_a", now)
	b.Add("p_2", "p_b", now)

	got := b.ActiveTargets(now)
	if len(got) != 2 || got[0] != "p_a" || got[1] != "p_b" {
		t.Errorf("expected [p_a p_b], got %v", got)
	}
}

func TestAssistBookExpiry(t *testing.T) {
	cfg := testConfig(t)
	b := NewAssistBook(cfg)
	now := time.Now()

	b.Add("p_1", "p_a", now)
	b.Add("p_2", "p_b", now.Add(5*time.Second))

	// first beacon expired, second still live
	at := now.Add(cfg.AssistDuration + time.Second)
	if got := b.ActiveTargets(at); len(got) != 1 || got[0] != "p_b" {
		t.Errorf("expected surviving beacon, got %v", got)
	}

	// everything expired
	at = now.Add(cfg.AssistDuration + 10*time.Second)
	if got := b.ActiveTargets(at); len(got) != 0 {
		t.Errorf("expected no targets, got %v", got)
	}
}

func TestAssistBookReset(t *testing.T) {
	cfg := testConfig(t)
	b := NewAssistBook(cfg)
	now := time.Now()

	b.Add("p_1", "p_a", now)
	b.Reset()

	if len(b.ActiveTargets(now)) != 0 {
		t.Error("reset should clear beacons")
	}
	if !b.Add("p_1", "p_a", now) {
		t.Error("reset should clear cooldowns")
	}
}
