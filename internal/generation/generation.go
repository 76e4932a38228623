// Package generation talks to the hosted generative-language model that
// produces answer critiques, quizzes and explanations.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("generation service not configured: API key missing")

// Image is an inline image sent alongside a prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator turns a prompt (and optional images) into text.
type Generator interface {
	Generate(ctx context.Context, prompt string, images ...Image) (string, error)
}

// Disabled is the Generator used when no API key is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, string, ...Image) (string, error) {
	return "", ErrNotConfigured
}

// Retrying attempts a generation once and, on failure, exactly once more
// after Delay. ErrNotConfigured is not retried.
type Retrying struct {
	Next  Generator
	Delay time.Duration
}

// WithRetry wraps g with the retry-once policy.
func WithRetry(g Generator, delay time.Duration) *Retrying {
	return &Retrying{Next: g, Delay: delay}
}

func (r *Retrying) Generate(ctx context.Context, prompt string, images ...Image) (string, error) {
	text, err := r.Next.Generate(ctx, prompt, images...)
	if err == nil || errors.Is(err, ErrNotConfigured) {
		return text, err
	}

	zerolog.Ctx(ctx).Warn().Err(err).Dur("delay", r.Delay).Msg("Generation failed, retrying once")

	timer := time.NewTimer(r.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("generation retry: %w", ctx.Err())
	case <-timer.C:
	}

	text, err = r.Next.Generate(ctx, prompt, images...)
	if err != nil {
		return "", fmt.Errorf("generation failed after retry: %w", err)
	}
	return text, nil
}
