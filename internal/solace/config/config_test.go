package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Errorf("addr default wrong: %q", cfg.Addr)
	}
	if cfg.DatabasePath != "./solace.db" {
		t.Errorf("database path default wrong: %q", cfg.DatabasePath)
	}
	if cfg.BufferWindow != 20 {
		t.Errorf("buffer window default wrong: %d", cfg.BufferWindow)
	}
	if cfg.SummaryPolicy != "allow" {
		t.Errorf("summary policy default wrong: %q", cfg.SummaryPolicy)
	}
	if cfg.Retrieval.Limit != 5 || cfg.Retrieval.Threshold != 0.7 || cfg.Retrieval.SummaryLimit != 3 {
		t.Errorf("retrieval defaults wrong: %+v", cfg.Retrieval)
	}
	if cfg.LLMTimeout() != 120*time.Second {
		t.Errorf("llm timeout default wrong: %v", cfg.LLMTimeout())
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
addr: ":9000"
buffer_window: 10
summary_policy: reject
llm:
  model: gpt-4o
retrieval:
  threshold: 0.5
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.BufferWindow != 10 || cfg.SummaryPolicy != "reject" {
		t.Errorf("yaml overrides not applied: %+v", cfg)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("nested yaml override not applied: %q", cfg.LLM.Model)
	}
	if cfg.Retrieval.Threshold != 0.5 {
		t.Errorf("threshold override not applied: %v", cfg.Retrieval.Threshold)
	}
	// Untouched keys keep their defaults.
	if cfg.DatabasePath != "./solace.db" {
		t.Errorf("unrelated default lost: %q", cfg.DatabasePath)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SOLACE_ADDR", ":7000")
	t.Setenv("SOLACE_RETRIEVAL_THRESHOLD", "0.85")
	t.Setenv("SOLACE_EMBED_RETRIES", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("env should beat yaml, got %q", cfg.Addr)
	}
	if cfg.Retrieval.Threshold != 0.85 {
		t.Errorf("env float not applied: %v", cfg.Retrieval.Threshold)
	}
	if cfg.Embedding.Retries != 3 {
		t.Errorf("env int not applied: %d", cfg.Embedding.Retries)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"bad policy", map[string]string{"SOLACE_SUMMARY_POLICY": "maybe"}},
		{"threshold out of range", map[string]string{"SOLACE_RETRIEVAL_THRESHOLD": "1.5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
