package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Enricher upgrades canned dialogue with generated text. Every call is
// best-effort: an error or empty result means "no enrichment available"
// and never reaches players.
type Enricher interface {
	MonsterReply(ctx context.Context, roundIndex int, playerMessage string, points int) (string, error)
	BotPlea(ctx context.Context, roundIndex int) (string, error)
}

type chatEnricher struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewEnricher builds a client for an OpenAI-compatible chat completions
// endpoint. Returns nil when the endpoint or key is not configured;
// callers treat nil as "enrichment disabled".
func NewEnricher(cfg *Config) Enricher {
	if cfg.LLMEndpoint == "" || cfg.LLMAPIKey == "" {
		return nil
	}
	return &chatEnricher{
		endpoint: strings.TrimRight(cfg.LLMEndpoint, "/") + "/chat/completions",
		apiKey:   cfg.LLMAPIKey,
		model:    cfg.LLMModel,
		client:   &http.Client{Timeout: cfg.LLMTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (e *chatEnricher) callChat(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       e.model,
		Messages:    []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("enrichment status: %s", resp.Status)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// MonsterReply generates an in-character reply to a player's plea,
// toned by how well the plea scored.
func (e *chatEnricher) MonsterReply(ctx context.Context, roundIndex int, playerMessage string, points int) (string, error) {
	var tone string
	switch {
	case points >= 4:
		tone = "grudgingly impressed but still threatening"
	case points >= 2:
		tone = "unimpressed and mocking"
	default:
		tone = "contemptuous and hungry"
	}

	system := "You are a terrifying forest monster in a horror game. " +
		fmt.Sprintf("Your tone is %s. ", tone) +
		"Reply in 1-2 short sentences. Stay in character. Do not break the fourth wall."
	user := fmt.Sprintf("Round %d. The player said: %q. They scored %d points. Reply as the monster.",
		roundIndex+1, playerMessage, points)

	return e.callChat(ctx, system, user, 80, 0.9)
}

// BotPlea generates a plea for a caught bot
func (e *chatEnricher) BotPlea(ctx context.Context, roundIndex int) (string, error) {
	system := "You are an NPC in a horror game, caught by a forest monster. " +
		"You must plead for your life convincingly. " +
		"Use emotional keywords like: sorry, mercy, please, alive, promise, help, change, learn, friends, family, future, earn. " +
		"Reply in 1-2 sentences. Stay in character."
	user := fmt.Sprintf("Round %d of 3. Plead for your life to the monster.", roundIndex+1)

	return e.callChat(ctx, system, user, 60, 0.8)
}
