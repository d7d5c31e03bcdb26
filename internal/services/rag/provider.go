// Package rag ingests uploaded medical documents into the vector store
// and answers questions grounded in the retrieved passages.
package rag

import (
	"context"
	"errors"
)

// ErrProviderUnconfigured is returned when no API key was supplied.
var ErrProviderUnconfigured = errors.New("AI provider not configured")

// UnconfiguredProvider fails every call. It stands in for a real
// backend when no API key is configured, so the chat endpoints degrade
// to their fallback reply instead of the service refusing to start.
type UnconfiguredProvider struct{}

func (UnconfiguredProvider) Complete(context.Context, string, string) (string, error) {
	return "", ErrProviderUnconfigured
}

func (UnconfiguredProvider) Embed(context.Context, []string) ([][]float32, error) {
	return nil, ErrProviderUnconfigured
}

// Provider is the language model backend used for completions and
// embeddings.
type Provider interface {
	// Complete sends a system prompt and a user message and returns the
	// model's reply.
	Complete(ctx context.Context, system, user string) (string, error)

	// Embed returns one embedding vector per input text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
