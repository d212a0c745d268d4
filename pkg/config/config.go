// Package config loads engine configuration from a YAML file with
// environment-variable overrides and validated defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Indexer  IndexerConfig  `yaml:"indexer"`
	PageRank PageRankConfig `yaml:"pagerank"`
	Search   SearchConfig   `yaml:"search"`
}

// PathsConfig names the fetcher output directory and the artifact
// directory the build swaps into place.
type PathsConfig struct {
	Pages string `yaml:"pages"`
	Index string `yaml:"index"`
}

type IndexerConfig struct {
	// Workers <= 0 means NumCPU*2.
	Workers int `yaml:"workers"`
	Batch   int `yaml:"batch"`
}

type PageRankConfig struct {
	Damping    float64 `yaml:"damping"`
	Iterations int     `yaml:"iterations"`
	Epsilon    float64 `yaml:"epsilon"`
}

type SearchConfig struct {
	WeightCosine       float64 `yaml:"weightCosine"`
	WeightPageRank     float64 `yaml:"weightPageRank"`
	RelevanceThreshold float64 `yaml:"relevanceThreshold"`
	TopK               int     `yaml:"topK"`
	CacheSize          int     `yaml:"cacheSize"`
	Readers            int     `yaml:"readers"`
}

// Load reads a YAML config file (if provided) and applies LS_* env
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Pages: "crawled_pages",
			Index: "index.data",
		},
		Indexer: IndexerConfig{
			Workers: 0,
			Batch:   100,
		},
		PageRank: PageRankConfig{
			Damping:    0.85,
			Iterations: 20,
			Epsilon:    1e-6,
		},
		Search: SearchConfig{
			WeightCosine:       0.6,
			WeightPageRank:     0.4,
			RelevanceThreshold: 0.01,
			TopK:               10,
			CacheSize:          256,
			Readers:            4,
		},
	}
}

func (cfg *Config) Validate() error {
	if cfg.PageRank.Damping <= 0 || cfg.PageRank.Damping >= 1 {
		return fmt.Errorf("pagerank damping must be in (0, 1), got %v", cfg.PageRank.Damping)
	}
	if cfg.PageRank.Iterations < 1 {
		return fmt.Errorf("pagerank iterations must be >= 1, got %d", cfg.PageRank.Iterations)
	}
	if cfg.PageRank.Epsilon <= 0 {
		return fmt.Errorf("pagerank epsilon must be > 0, got %v", cfg.PageRank.Epsilon)
	}
	if cfg.Search.WeightCosine < 0 || cfg.Search.WeightPageRank < 0 {
		return fmt.Errorf("ranking weights must be >= 0, got %v/%v",
			cfg.Search.WeightCosine, cfg.Search.WeightPageRank)
	}
	if cfg.Search.RelevanceThreshold < 0 {
		return fmt.Errorf("relevance threshold must be >= 0, got %v", cfg.Search.RelevanceThreshold)
	}
	if cfg.Search.TopK < 1 {
		return fmt.Errorf("topK must be >= 1, got %d", cfg.Search.TopK)
	}
	if cfg.Indexer.Batch < 1 {
		return fmt.Errorf("indexer batch must be >= 1, got %d", cfg.Indexer.Batch)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LS_PAGES_DIR"); v != "" {
		cfg.Paths.Pages = v
	}
	if v := os.Getenv("LS_INDEX_DIR"); v != "" {
		cfg.Paths.Index = v
	}
	if v := os.Getenv("LS_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.Workers = workers
		}
	}
	if v := os.Getenv("LS_TOP_K"); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.Search.TopK = k
		}
	}
}
