package main

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the server exposes. Values come from an
// optional YAML file overridden by YAN_-prefixed environment variables
// (YAN_INVITE_SECRET, YAN_LLM_API_KEY, ...).
type Config struct {
	Addr      string `mapstructure:"addr"`
	PublicURL string `mapstructure:"public_url"`
	DBPath    string `mapstructure:"db_path"`
	Debug     bool   `mapstructure:"debug"`

	InviteSecret string `mapstructure:"invite_secret"`

	TickRate     int `mapstructure:"tick_rate"`
	MaxOccupants int `mapstructure:"max_occupants"`
	MinOccupants int `mapstructure:"min_occupants"`
	TargetParty  int `mapstructure:"target_party"`

	Rounds        int `mapstructure:"rounds"`
	RoundSeconds  int `mapstructure:"round_seconds"`
	RequiredScore int `mapstructure:"required_score"`

	MapWidth float64 `mapstructure:"map_width"`
	MapDepth float64 `mapstructure:"map_depth"`

	PlayerSpeed  float64 `mapstructure:"player_speed"`
	MonsterSpeed float64 `mapstructure:"monster_speed"`
	BotSpeed     float64 `mapstructure:"bot_speed"`
	BotDrift     float64 `mapstructure:"bot_drift"`

	CatchRadius float64 `mapstructure:"catch_radius"`
	DetectRange float64 `mapstructure:"detect_range"`

	GraceDuration    time.Duration `mapstructure:"grace_duration"`
	BotSpawnImmunity time.Duration `mapstructure:"bot_spawn_immunity"`
	AssistCooldown   time.Duration `mapstructure:"assist_cooldown"`
	AssistDuration   time.Duration `mapstructure:"assist_duration"`
	BotThinkTime     time.Duration `mapstructure:"bot_think_time"`

	LLMEndpoint string        `mapstructure:"llm_endpoint"`
	LLMAPIKey   string        `mapstructure:"llm_api_key"`
	LLMModel    string        `mapstructure:"llm_model"`
	LLMTimeout  time.Duration `mapstructure:"llm_timeout"`
}

// LoadConfig reads config from the given YAML file path. An empty path
// loads defaults plus environment overrides only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("YAN")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("db_path", "")
	v.SetDefault("debug", false)
	v.SetDefault("invite_secret", "")

	v.SetDefault("tick_rate", 20)
	v.SetDefault("max_occupants", 8)
	v.SetDefault("min_occupants", 1)
	v.SetDefault("target_party", 4)

	v.SetDefault("rounds", 3)
	v.SetDefault("round_seconds", 20)
	v.SetDefault("required_score", 9)

	v.SetDefault("map_width", 100.0)
	v.SetDefault("map_depth", 300.0)

	v.SetDefault("player_speed", 0.45)
	v.SetDefault("monster_speed", 0.38)
	v.SetDefault("bot_speed", 0.35)
	v.SetDefault("bot_drift", 1.5)

	v.SetDefault("catch_radius", 2.0)
	v.SetDefault("detect_range", 40.0)

	v.SetDefault("grace_duration", "10s")
	v.SetDefault("bot_spawn_immunity", "15s")
	v.SetDefault("assist_cooldown", "15s")
	v.SetDefault("assist_duration", "10s")
	v.SetDefault("bot_think_time", "2500ms")

	v.SetDefault("llm_endpoint", "")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "gpt-4o-mini")
	v.SetDefault("llm_timeout", "8s")

	// Bind the keys that usually arrive via env so AutomaticEnv sees them
	// even without a config file.
	for _, key := range []string{"invite_secret", "llm_endpoint", "llm_api_key", "llm_model", "db_path", "public_url"} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HalfWidth returns the clamp bound on the X axis (one unit of margin,
// matching the forest wall thickness).
func (c *Config) HalfWidth() float64 { return c.MapWidth/2 - 1 }

// HalfDepth returns the clamp bound on the Z axis.
func (c *Config) HalfDepth() float64 { return c.MapDepth/2 - 1 }

// StartZ is the spawn line near the map's south edge.
func (c *Config) StartZ() float64 { return -(c.MapDepth/2 - 10) }

// FinishZ is the escape line near the north edge.
func (c *Config) FinishZ() float64 { return c.MapDepth/2 - 10 }

// TickDuration returns the wall-clock period of one simulation tick.
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
