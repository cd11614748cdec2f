package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/debot/internal/recommend"
)

// Config holds the application settings outside the LLM subsystem.
type Config struct {
	DBPath       string             `yaml:"db_path"`
	Conversation ConversationConfig `yaml:"conversation"`
	Recommend    RecommendConfig    `yaml:"recommend"`
	HTTP         HTTPConfig         `yaml:"http"`
	Log          LogConfig          `yaml:"log"`
}

type ConversationConfig struct {
	WindowSize int           `yaml:"window_size"`
	TTL        time.Duration `yaml:"ttl"`
	RedisURL   string        `yaml:"redis_url"` // empty keeps conversations in memory
}

type RecommendConfig struct {
	GateMaxModules    int    `yaml:"gate_max_modules"`
	GateMinHits       int    `yaml:"gate_min_hits"`
	RankerConcurrency int    `yaml:"ranker_concurrency"`
	MainLinkBase      string `yaml:"main_link_base"`
	LabsLinkBase      string `yaml:"labs_link_base"`
	EmbeddingCache    bool   `yaml:"embedding_cache"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // "production" or "development"
}

// Default returns the built-in settings. DBPath is left empty and resolved
// by Load.
func Default() Config {
	gate := recommend.DefaultGate()
	links := recommend.DefaultLinkBuilder()
	return Config{
		Conversation: ConversationConfig{
			WindowSize: 10,
			TTL:        time.Hour,
		},
		Recommend: RecommendConfig{
			GateMaxModules:    gate.MaxModules,
			GateMinHits:       gate.MinHits,
			RankerConcurrency: 4,
			MainLinkBase:      links.MainBase,
			LabsLinkBase:      links.LabsBase,
			EmbeddingCache:    true,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Log:  LogConfig{Mode: "production"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or $DEBOT_CONFIG when path is empty), then DEBOT_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("DEBOT_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".debot", "debot.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DEBOT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DEBOT_REDIS_URL"); v != "" {
		cfg.Conversation.RedisURL = v
	}
	if v := os.Getenv("DEBOT_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("DEBOT_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("DEBOT_LINK_MAIN_BASE"); v != "" {
		cfg.Recommend.MainLinkBase = v
	}
	if v := os.Getenv("DEBOT_LINK_LABS_BASE"); v != "" {
		cfg.Recommend.LabsLinkBase = v
	}
	if v := os.Getenv("DEBOT_CONVERSATION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DEBOT_CONVERSATION_TTL: %w", err)
		}
		cfg.Conversation.TTL = d
	}
	if v := os.Getenv("DEBOT_EMBEDDING_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBOT_EMBEDDING_CACHE: %w", err)
		}
		cfg.Recommend.EmbeddingCache = b
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"DEBOT_WINDOW_SIZE", &cfg.Conversation.WindowSize},
		{"DEBOT_GATE_MAX_MODULES", &cfg.Recommend.GateMaxModules},
		{"DEBOT_GATE_MIN_HITS", &cfg.Recommend.GateMinHits},
		{"DEBOT_RANKER_CONCURRENCY", &cfg.Recommend.RankerConcurrency},
	}
	for _, i := range ints {
		v := os.Getenv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", i.env, err)
		}
		*i.dst = n
	}
	return nil
}

// Validate rejects settings the recommender cannot run with.
func (c Config) Validate() error {
	if c.Conversation.WindowSize < 3 {
		return fmt.Errorf("window size must be at least 3, got %d", c.Conversation.WindowSize)
	}
	if c.Conversation.TTL <= 0 {
		return fmt.Errorf("conversation ttl must be positive, got %s", c.Conversation.TTL)
	}
	if c.Recommend.GateMaxModules < 2 {
		return fmt.Errorf("gate max modules must be at least 2, got %d", c.Recommend.GateMaxModules)
	}
	if c.Recommend.GateMinHits < 0 {
		return fmt.Errorf("gate min hits must not be negative, got %d", c.Recommend.GateMinHits)
	}
	if c.Recommend.RankerConcurrency < 1 {
		return fmt.Errorf("ranker concurrency must be at least 1, got %d", c.Recommend.RankerConcurrency)
	}
	if c.Recommend.MainLinkBase == "" || c.Recommend.LabsLinkBase == "" {
		return fmt.Errorf("link bases must not be empty")
	}
	switch c.Log.Mode {
	case "production", "development":
	default:
		return fmt.Errorf("log mode must be production or development, got %q", c.Log.Mode)
	}
	return nil
}

// Gate returns the recommend gate described by the config.
func (c Config) Gate() recommend.Gate {
	return recommend.Gate{MaxModules: c.Recommend.GateMaxModules, MinHits: c.Recommend.GateMinHits}
}

// Links returns the lesson link builder described by the config.
func (c Config) Links() recommend.LinkBuilder {
	return recommend.LinkBuilder{MainBase: c.Recommend.MainLinkBase, LabsBase: c.Recommend.LabsLinkBase}
}
