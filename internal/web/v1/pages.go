package v1

import (
	"context"
	"net/http"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"

	"github.com/duynhne/vchartered/internal/core/domain"
	logicv1 "github.com/duynhne/vchartered/internal/logic/v1"
)

// Page identifies a navigable page of the app.
type Page string

const (
	PageHome          Page = "home"
	PageLogin         Page = "login"
	PageAnswerChecker Page = "answer-checker"
	PageQuiz          Page = "quiz"
	PageDoubt         Page = "doubt"
	PageChat          Page = "chat"
	PageLeaderboard   Page = "leaderboard"
	PageHistory       Page = "history"
)

// Pages lists every page in navigation order.
var Pages = []Page{
	PageHome, PageLogin, PageAnswerChecker, PageQuiz, PageDoubt, PageChat, PageLeaderboard, PageHistory,
}

// ParsePage maps a raw identifier to a Page. Unknown identifiers fall back
// to PageHome.
func ParsePage(s string) Page {
	for _, p := range Pages {
		if string(p) == s {
			return p
		}
	}
	return PageHome
}

// RequiresAuth reports whether anonymous callers are sent to the login page.
func (p Page) RequiresAuth() bool {
	switch p {
	case PageHome, PageLogin, PageLeaderboard:
		return false
	default:
		return true
	}
}

type pageFunc func(ctx context.Context, rc *RequestContext) (any, error)

func (h *Handler) pageHandlers() map[Page]pageFunc {
	static := func(data any) pageFunc {
		return func(context.Context, *RequestContext) (any, error) { return data, nil }
	}

	return map[Page]pageFunc{
		PageHome:  static(gin.H{"features": []Page{PageAnswerChecker, PageQuiz, PageDoubt, PageChat}}),
		PageLogin: static(gin.H{"fields": []string{"email", "password"}}),
		PageAnswerChecker: static(gin.H{
			"accepted_types": acceptedImageTypes(),
			"max_bytes":      maxImageBytes,
		}),
		PageQuiz:  static(gin.H{"levels": logicv1.Levels()}),
		PageDoubt: static(gin.H{}),
		PageChat:  static(gin.H{"persona": "Kuchu"}),
		PageLeaderboard: func(ctx context.Context, _ *RequestContext) (any, error) {
			return h.store.TopScores(ctx, 0)
		},
		PageHistory: func(ctx context.Context, rc *RequestContext) (any, error) {
			return h.store.History(ctx, rc.Identity.Email)
		},
	}
}

// Page handles GET /pages/:page. Every visit is recorded, including
// anonymous ones, and anonymous callers of protected pages are sent to login.
func (h *Handler) Page(c *gin.Context) {
	ctx := c.Request.Context()
	rc := requestContext(c)

	page := ParsePage(c.Param("page"))
	if page.RequiresAuth() && !rc.Identity.Authenticated() {
		page = PageLogin
	}

	h.store.RecordEvent(ctx, rc.Identity.Email, domain.ActionVisit, string(page))

	data, err := h.pages[page](ctx, rc)
	if err != nil {
		pkgzerolog.FromContext(ctx).Error().Err(err).Str("page", string(page)).Msg("Page data failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": page,
		"user": userView(rc.Identity),
		"data": data,
	})
}

func userView(id logicv1.Identity) *domain.User {
	if !id.Authenticated() {
		return nil
	}
	return &domain.User{Email: id.Email, DisplayName: id.DisplayName}
}
