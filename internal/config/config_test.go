package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Chunker.MaxChars)
	assert.Equal(t, 100, cfg.Chunker.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.InDelta(t, 0.6, cfg.Retrieval.Alpha, 1e-12)
	assert.InDelta(t, 0.35, cfg.Retrieval.ConfidenceThreshold, 1e-12)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  max_chars: 400\nllm:\n  type: openai\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Chunker.MaxChars)
	assert.Equal(t, 100, cfg.Chunker.Overlap)
	require.NotNil(t, cfg.LLM.OpenAI)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.OpenAI.APIKeyEnv)
	assert.InDelta(t, 0.15, cfg.LLM.OpenAI.Temperature, 1e-12)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Retrieval.ConfidenceThreshold = 0.5

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, loaded.Retrieval.ConfidenceThreshold, 1e-12)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [broken"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
