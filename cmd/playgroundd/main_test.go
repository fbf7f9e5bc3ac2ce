package main

import (
	"testing"

	"github.com/devwithfarshi/ai-playground/internal/adapter"
	"github.com/devwithfarshi/ai-playground/internal/config"
)

func TestBuildAdapter(t *testing.T) {
	a, err := buildAdapter(config.RelayConfig{})
	if err != nil {
		t.Fatalf("buildAdapter: %v", err)
	}
	if got := adapter.ProviderName(a); got != "loopback" {
		t.Fatalf("expected loopback without key, got %s", got)
	}

	a, err = buildAdapter(config.RelayConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: "http://127.0.0.1:1/v1"})
	if err != nil {
		t.Fatalf("buildAdapter: %v", err)
	}
	if got := adapter.ProviderName(a); got != "openai" {
		t.Fatalf("expected openai with key, got %s", got)
	}
	if _, ok := a.(adapter.StreamingChatAdapter); !ok {
		t.Fatalf("openai adapter should stream")
	}
}
