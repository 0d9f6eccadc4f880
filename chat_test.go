package main

import (
	"strings"
	"testing"
)

func TestEvaluateResponseKeywordScoring(t *testing.T) {
	eval := EvaluateResponse(0, "please have mercy")
	if len(eval.Matched) != 2 {
		t.Fatalf("expected 2 matches, got %v", eval.Matched)
	}
	if eval.Points != 4 {
		t.Errorf("expected 4 points, got %d", eval.Points)
	}
	if eval.TimedOut {
		t.Error("non-empty message should not time out")
	}
}

func TestEvaluateResponseLengthBonus(t *testing.T) {
	short := EvaluateResponse(0, "mercy")
	if short.Points != 2 {
		t.Errorf("expected 2 points for one keyword, got %d", short.Points)
	}

	long := EvaluateResponse(0, "mercy is all i ask of you tonight in this dark forest")
	if long.Points != 3 {
		t.Errorf("expected 2+1 points with length bonus, got %d", long.Points)
	}
}

func TestEvaluateResponseClamp(t *testing.T) {
	eval := EvaluateResponse(0, "sorry, mercy, please, keep me alive somehow tonight")
	if eval.Points != maxRoundPoints {
		t.Errorf("expected clamp to %d, got %d", maxRoundPoints, eval.Points)
	}
}

func TestEvaluateResponsePerRoundKeywords(t *testing.T) {
	// round 0 vocabulary should not score in round 1
	eval := EvaluateResponse(1, "please have mercy")
	if eval.Points != 0 {
		t.Errorf("round 0 keywords scored in round 1: %d points", eval.Points)
	}

	eval = EvaluateResponse(1, "i promise to change")
	if eval.Points != 4 {
		t.Errorf("expected 4 points from round 1 keywords, got %d", eval.Points)
	}
}

func TestEvaluateResponseOutOfRangeRound(t *testing.T) {
	eval := EvaluateResponse(7, "please, i promise a future where i change")
	if len(eval.Matched) != 4 {
		t.Errorf("expected all default keywords to match, got %v", eval.Matched)
	}
}

func TestEvaluateResponseNormalization(t *testing.T) {
	a := EvaluateResponse(0, "PLEASE!!! Mercy...")
	b := EvaluateResponse(0, "please mercy")
	if a.Points != b.Points {
		t.Errorf("punctuation changed the score: %d vs %d", a.Points, b.Points)
	}
	// punctuation must not glue words together
	if EvaluateResponse(0, "mercy!please").Points != 4 {
		t.Error("punctuation should split tokens")
	}
}

func TestEvaluateResponseEmptyTimesOut(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!"} {
		eval := EvaluateResponse(0, input)
		if !eval.TimedOut {
			t.Errorf("input %q should count as timeout", input)
		}
		if eval.Points != 0 {
			t.Errorf("timeout scored %d points", eval.Points)
		}
	}
}

func TestEvaluateResponseDeterministic(t *testing.T) {
	msg := "please show mercy and keep me alive"
	first := EvaluateResponse(0, msg)
	for i := 0; i < 10; i++ {
		again := EvaluateResponse(0, msg)
		if again.Points != first.Points || again.MonsterReply != first.MonsterReply {
			t.Fatal("evaluation is not deterministic")
		}
	}
}

func TestMonsterReplyTiers(t *testing.T) {
	strong := EvaluateResponse(0, "please mercy")
	if !strings.Contains(strong.MonsterReply, "Amusing") {
		t.Errorf("expected impressed reply, got %q", strong.MonsterReply)
	}

	weak := EvaluateResponse(0, "mercy")
	if !strings.Contains(weak.MonsterReply, "Weak argument") {
		t.Errorf("expected dismissive reply, got %q", weak.MonsterReply)
	}

	nothing := EvaluateResponse(0, "hello there")
	if !strings.Contains(nothing.MonsterReply, "making this easy") {
		t.Errorf("expected contemptuous reply, got %q", nothing.MonsterReply)
	}

	timeout := EvaluateResponse(0, "")
	if !strings.Contains(timeout.MonsterReply, "Silence") {
		t.Errorf("expected timeout reply, got %q", timeout.MonsterReply)
	}
}

func TestWinningPleasScoreMax(t *testing.T) {
	for i, plea := range WinningPleas {
		eval := EvaluateResponse(i, plea)
		if eval.Points != maxRoundPoints {
			t.Errorf("round %d plea scored %d, want %d", i, eval.Points, maxRoundPoints)
		}
	}
}
