package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0.6, cfg.Search.WeightCosine)
	require.Equal(t, 0.4, cfg.Search.WeightPageRank)
	require.Equal(t, 0.85, cfg.PageRank.Damping)
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	data := `
paths:
  pages: /data/pages
  index: /data/index
pagerank:
  damping: 0.9
  iterations: 40
search:
  topK: 5
  relevanceThreshold: 0.05
`
	require.NoError(t, os.WriteFile(file, []byte(data), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "/data/pages", cfg.Paths.Pages)
	require.Equal(t, "/data/index", cfg.Paths.Index)
	require.Equal(t, 0.9, cfg.PageRank.Damping)
	require.Equal(t, 40, cfg.PageRank.Iterations)
	require.Equal(t, 5, cfg.Search.TopK)
	require.Equal(t, 0.05, cfg.Search.RelevanceThreshold)

	// Unset fields keep their defaults.
	require.Equal(t, 1e-6, cfg.PageRank.Epsilon)
	require.Equal(t, 0.6, cfg.Search.WeightCosine)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LS_TOP_K", "3")
	t.Setenv("LS_INDEX_DIR", "/tmp/idx")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Search.TopK)
	require.Equal(t, "/tmp/idx", cfg.Paths.Index)
}

func TestLoadRejectsInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("pagerank:\n  damping: 1.5\n"), 0644))

	_, err := Load(file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "damping")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
