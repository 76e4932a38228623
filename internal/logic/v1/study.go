package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/vchartered/internal/core/domain"
	"github.com/duynhne/vchartered/internal/generation"
	"github.com/duynhne/vchartered/middleware"
)

// DefaultSubject is recorded for answer sheets submitted without a subject.
const DefaultSubject = "General"

// AnswerReview is the examiner feedback on one uploaded answer sheet.
type AnswerReview struct {
	Review string `json:"review"`
	Score  int    `json:"score"`
}

// StudyService runs the generation-backed features on behalf of an
// authenticated identity and records their activity and results.
type StudyService struct {
	gen    generation.Generator
	store  *CredentialStore
	scorer Scorer
}

// NewStudyService creates a StudyService. gen should already carry the retry policy.
func NewStudyService(gen generation.Generator, store *CredentialStore, scorer Scorer) *StudyService {
	return &StudyService{gen: gen, store: store, scorer: scorer}
}

// CheckAnswer has the examiner grade an answer sheet image, then records the
// derived score under subject. A failed result write does not fail the review.
func (s *StudyService) CheckAnswer(ctx context.Context, id Identity, subject string, image generation.Image) (*AnswerReview, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if len(image.Data) == 0 {
		return nil, fmt.Errorf("answer sheet image is empty: %w", ErrInvalidInput)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = DefaultSubject
	}

	review, err := s.generate(ctx, "answer_check", buildAnswerCheckPrompt(subject), image)
	if err != nil {
		return nil, err
	}

	score := s.scorer.Score(review)
	if err := s.store.RecordResult(ctx, id.Email, subject, score); err != nil {
		middleware.DroppedWrites.WithLabelValues("results").Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Str("subject", subject).Msg("Failed to record result")
	}
	s.store.RecordEvent(ctx, id.Email, domain.ActionAnswerCheck, subject)

	return &AnswerReview{Review: review, Score: score}, nil
}

// GenerateQuiz produces a 20-question mock test on topic for level.
func (s *StudyService) GenerateQuiz(ctx context.Context, id Identity, topic, level string) (string, error) {
	if !id.Authenticated() {
		return "", ErrUnauthenticated
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("quiz topic is required: %w", ErrInvalidInput)
	}
	if !validLevel(level) {
		return "", fmt.Errorf("unknown level %q: %w", level, ErrInvalidInput)
	}

	text, err := s.generate(ctx, "quiz", buildQuizPrompt(topic, level))
	if err != nil {
		return "", err
	}
	s.store.RecordEvent(ctx, id.Email, domain.ActionQuizGenerate, level+": "+topic)
	return text, nil
}

// SolveDoubt explains a concept for exam revision.
func (s *StudyService) SolveDoubt(ctx context.Context, id Identity, doubt string) (string, error) {
	if !id.Authenticated() {
		return "", ErrUnauthenticated
	}
	doubt = strings.TrimSpace(doubt)
	if doubt == "" {
		return "", fmt.Errorf("doubt is required: %w", ErrInvalidInput)
	}

	text, err := s.generate(ctx, "doubt", buildDoubtPrompt(doubt))
	if err != nil {
		return "", err
	}
	s.store.RecordEvent(ctx, id.Email, domain.ActionDoubtAsk, doubt)
	return text, nil
}

// Chat answers a message in the Kuchu persona.
func (s *StudyService) Chat(ctx context.Context, id Identity, message string) (string, error) {
	if !id.Authenticated() {
		return "", ErrUnauthenticated
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is required: %w", ErrInvalidInput)
	}

	text, err := s.generate(ctx, "chat", buildChatPrompt(id.DisplayName, message))
	if err != nil {
		return "", err
	}
	s.store.RecordEvent(ctx, id.Email, domain.ActionChat, "")
	return text, nil
}

func (s *StudyService) generate(ctx context.Context, feature, prompt string, images ...generation.Image) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "study."+feature, trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("images", len(images)),
	))
	defer span.End()

	text, err := s.gen.Generate(ctx, prompt, images...)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, generation.ErrNotConfigured) {
			middleware.GenerationRequests.WithLabelValues(feature, "unavailable").Inc()
			return "", fmt.Errorf("%s: %w", feature, ErrGenerationUnavailable)
		}
		middleware.GenerationRequests.WithLabelValues(feature, "error").Inc()
		return "", fmt.Errorf("%s: %w: %v", feature, ErrGenerationFailed, err)
	}

	middleware.GenerationRequests.WithLabelValues(feature, "ok").Inc()
	return text, nil
}
