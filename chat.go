package main

import (
	"fmt"
	"strings"
)

const maxRoundPoints = 5

// MonsterTaunts open each round, cycled by round index
var MonsterTaunts = []string{
	"You look tired. Give me one reason not to swallow you whole.",
	"Words are cheap. Prove you are worth the trouble.",
	"Final chance. Convince me you belong among the living.",
}

// roundKeywords is the per-round scoring vocabulary
var roundKeywords = [][]string{
	{"sorry", "mercy", "please", "alive"},
	{"promise", "help", "change", "learn"},
	{"friends", "family", "future", "earn"},
}

// defaultKeywords covers out-of-range round indices
var defaultKeywords = []string{"please", "promise", "future", "change"}

// WinningPleas reliably score the maximum for their round; bots cycle
// through them when no enrichment is available
var WinningPleas = []string{
	"Please show mercy and keep me alive. I am sorry.",
	"I promise I can change and help if you let me go.",
	"My family and friends need me. I will earn a future.",
}

// ChatEvaluation is the result of scoring one submission
type ChatEvaluation struct {
	Points       int
	Matched      []string
	MonsterReply string
	TimedOut     bool
}

// normalizeText lowercases, replaces punctuation with spaces and trims.
// Interior whitespace is preserved so the length bonus matches the
// player's actual effort.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range strings.ToLower(input) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

func keywordsForRound(roundIndex int) []string {
	if roundIndex >= 0 && roundIndex < len(roundKeywords) {
		return roundKeywords[roundIndex]
	}
	return defaultKeywords
}

func buildMonsterReply(points int, matched []string, timedOut bool) string {
	if timedOut {
		return "Silence? Pathetic. I will count that as surrender."
	}
	if points >= 4 {
		if len(matched) > 0 {
			return fmt.Sprintf("You said %q. Amusing. I might let you crawl on.", strings.Join(matched, ", "))
		}
		return "Surprisingly coherent. Keep talking."
	}
	if points >= 2 {
		return "Weak argument. Barely worth hearing."
	}
	return "That is all? You are making this easy for me."
}

// EvaluateResponse scores a free-text submission for the given round.
// Deterministic and pure: same (round, message) always yields the same
// result. Multi-word keywords match by substring, single words by token
// membership. Score is 2 per match plus a length bonus, clamped.
func EvaluateResponse(roundIndex int, message string) ChatEvaluation {
	normalized := normalizeText(message)
	if normalized == "" {
		return ChatEvaluation{
			Points:       0,
			Matched:      nil,
			MonsterReply: buildMonsterReply(0, nil, true),
			TimedOut:     true,
		}
	}

	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		tokens[tok] = true
	}

	var matched []string
	for _, keyword := range keywordsForRound(roundIndex) {
		if strings.Contains(keyword, " ") {
			if strings.Contains(normalized, keyword) {
				matched = append(matched, keyword)
			}
			continue
		}
		if tokens[keyword] {
			matched = append(matched, keyword)
		}
	}

	points := len(matched) * 2
	if len(normalized) >= 40 {
		points++
	}
	if points > maxRoundPoints {
		points = maxRoundPoints
	}

	return ChatEvaluation{
		Points:       points,
		Matched:      matched,
		MonsterReply: buildMonsterReply(points, matched, false),
	}
}
