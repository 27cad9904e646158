package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Reddit   Reddit   `yaml:"reddit"`
	Analysis Analysis `yaml:"analysis"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Reddit struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxPages          int     `yaml:"max_pages"`
	PageSize          int     `yaml:"page_size"`
}

// Analysis mirrors the persona engine's configuration surface: keyword
// taxonomies and truncation limits.
type Analysis struct {
	MaxInterests          int `yaml:"max_interests"`
	MaxPersonalityTraits  int `yaml:"max_personality_traits"`
	MaxGoals              int `yaml:"max_goals"`
	MaxFrustrations       int `yaml:"max_frustrations"`
	MaxSubreddits         int `yaml:"max_subreddits"`
	InterestCitations     int `yaml:"interest_citations"`
	TraitCitations        int `yaml:"trait_citations"`
	ExcerptLength         int `yaml:"excerpt_length"`
	PostScoreThreshold    int `yaml:"post_score_threshold"`
	CommentScoreThreshold int `yaml:"comment_score_threshold"`

	Interests           []Category `yaml:"interests"`
	Personality         []Category `yaml:"personality"`
	GoalKeywords        []string   `yaml:"goal_keywords"`
	FrustrationKeywords []string   `yaml:"frustration_keywords"`
}

type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for redditpersona.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "redditpersona")
}

// DataDir returns the XDG data directory for redditpersona.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "redditpersona")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/redditpersona/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'redditpersona init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		// The embedded default must always parse.
		panic(fmt.Sprintf("invalid embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Reddit: Reddit{
			BaseURL:           "https://www.reddit.com",
			UserAgent:         "redditpersona/1.0 (persona generator)",
			TimeoutSeconds:    30,
			RequestsPerSecond: 1,
			MaxPages:          3,
			PageSize:          100,
		},
		Analysis: Analysis{
			MaxInterests:          5,
			MaxPersonalityTraits:  3,
			MaxGoals:              5,
			MaxFrustrations:       5,
			MaxSubreddits:         5,
			InterestCitations:     3,
			TraitCitations:        2,
			ExcerptLength:         100,
			PostScoreThreshold:    10,
			CommentScoreThreshold: 5,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
