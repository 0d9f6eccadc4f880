package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := testConfig(t)

	if cfg.TickRate != 20 {
		t.Errorf("tick_rate = %d", cfg.TickRate)
	}
	if cfg.MaxOccupants != 8 || cfg.MinOccupants != 1 || cfg.TargetParty != 4 {
		t.Errorf("occupancy defaults wrong: %d/%d/%d", cfg.MaxOccupants, cfg.MinOccupants, cfg.TargetParty)
	}
	if cfg.Rounds != 3 || cfg.RoundSeconds != 20 || cfg.RequiredScore != 9 {
		t.Errorf("argument defaults wrong: %d/%d/%d", cfg.Rounds, cfg.RoundSeconds, cfg.RequiredScore)
	}
	if cfg.MapWidth != 100 || cfg.MapDepth != 300 {
		t.Errorf("map defaults wrong: %f x %f", cfg.MapWidth, cfg.MapDepth)
	}
	if cfg.PlayerSpeed != 0.45 || cfg.MonsterSpeed != 0.38 {
		t.Errorf("speed defaults wrong: %f / %f", cfg.PlayerSpeed, cfg.MonsterSpeed)
	}
	if cfg.CatchRadius != 2.0 || cfg.DetectRange != 40.0 {
		t.Errorf("range defaults wrong: %f / %f", cfg.CatchRadius, cfg.DetectRange)
	}
	if cfg.GraceDuration != 10*time.Second {
		t.Errorf("grace = %v", cfg.GraceDuration)
	}
	if cfg.TickDuration() != 50*time.Millisecond {
		t.Errorf("tick duration = %v", cfg.TickDuration())
	}
}

func TestConfigGeometry(t *testing.T) {
	cfg := testConfig(t)

	if cfg.HalfWidth() != 49 || cfg.HalfDepth() != 149 {
		t.Errorf("bounds wrong: %f / %f", cfg.HalfWidth(), cfg.HalfDepth())
	}
	if cfg.StartZ() != -140 || cfg.FinishZ() != 140 {
		t.Errorf("lines wrong: %f / %f", cfg.StartZ(), cfg.FinishZ())
	}
	if cfg.StartZ() >= cfg.FinishZ() {
		t.Error("start must sit before the finish")
	}
}
