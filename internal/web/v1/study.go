package v1

import (
	"errors"
	"io"
	"net/http"
	"slices"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/vchartered/internal/generation"
	logicv1 "github.com/duynhne/vchartered/internal/logic/v1"
)

const maxImageBytes = 10 << 20

var imageTypes = []string{"image/jpeg", "image/png"}

func acceptedImageTypes() []string {
	return slices.Clone(imageTypes)
}

type quizRequest struct {
	Topic string `json:"topic" binding:"required"`
	Level string `json:"level" binding:"required"`
}

type doubtRequest struct {
	Doubt string `json:"doubt" binding:"required"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// CheckAnswer handles POST /answers/check (multipart: image, subject).
func (h *Handler) CheckAnswer(c *gin.Context) {
	rc, ok := requireAuth(c)
	if !ok {
		return
	}
	span, c := startSpan(c)
	defer span.End()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fh.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is larger than 10 MiB"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image could not be read"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image could not be read"})
		return
	}

	mimeType := http.DetectContentType(data)
	if !slices.Contains(imageTypes, mimeType) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only jpg, jpeg and png images are accepted"})
		return
	}
	span.SetAttributes(attribute.String("image.type", mimeType), attribute.Int("image.bytes", len(data)))

	review, err := h.study.CheckAnswer(c.Request.Context(), rc.Identity, c.PostForm("subject"),
		generation.Image{Data: data, MIMEType: mimeType})
	if err != nil {
		span.RecordError(err)
		h.writeStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// GenerateQuiz handles POST /quiz.
func (h *Handler) GenerateQuiz(c *gin.Context) {
	rc, ok := requireAuth(c)
	if !ok {
		return
	}

	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic and level are required"})
		return
	}

	text, err := h.study.GenerateQuiz(c.Request.Context(), rc.Identity, req.Topic, req.Level)
	if err != nil {
		h.writeStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// SolveDoubt handles POST /doubts.
func (h *Handler) SolveDoubt(c *gin.Context) {
	rc, ok := requireAuth(c)
	if !ok {
		return
	}

	var req doubtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doubt is required"})
		return
	}

	text, err := h.study.SolveDoubt(c.Request.Context(), rc.Identity, req.Doubt)
	if err != nil {
		h.writeStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// Chat handles POST /chat.
func (h *Handler) Chat(c *gin.Context) {
	rc, ok := requireAuth(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	text, err := h.study.Chat(c.Request.Context(), rc.Identity, req.Message)
	if err != nil {
		h.writeStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) writeStudyError(c *gin.Context, err error) {
	pkgzerolog.FromContext(c.Request.Context()).Warn().Err(err).Msg("Study request failed")

	switch {
	case errors.Is(err, logicv1.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, logicv1.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
	case errors.Is(err, logicv1.ErrGenerationUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Generation service is not configured"})
	case errors.Is(err, logicv1.ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Generation failed, try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
