package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scripted struct {
	errs  []error
	calls int
}

func (s *scripted) Generate(context.Context, string, ...Image) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return "ok", nil
}

func TestRetrying_SucceedsFirstTime(t *testing.T) {
	s := &scripted{}
	text, err := WithRetry(s, time.Millisecond).Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, s.calls)
}

func TestRetrying_RetriesExactlyOnce(t *testing.T) {
	s := &scripted{errs: []error{errors.New("503")}}
	text, err := WithRetry(s, time.Millisecond).Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, s.calls)
}

func TestRetrying_GivesUpAfterSecondFailure(t *testing.T) {
	s := &scripted{errs: []error{errors.New("503"), errors.New("still 503"), nil}}
	_, err := WithRetry(s, time.Millisecond).Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "still 503")
	assert.Equal(t, 2, s.calls)
}

func TestRetrying_NotConfiguredIsNotRetried(t *testing.T) {
	_, err := WithRetry(Disabled{}, time.Hour).Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestRetrying_ContextCancelledDuringDelay(t *testing.T) {
	s := &scripted{errs: []error{errors.New("503")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(s, time.Hour).Generate(ctx, "p")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.calls)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	require.ErrorIs(t, err, ErrNotConfigured)
}
