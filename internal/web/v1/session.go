package v1

import (
	"net/url"

	"github.com/gin-gonic/gin"

	logicv1 "github.com/duynhne/vchartered/internal/logic/v1"
	"github.com/duynhne/vchartered/middleware"
)

const requestContextKey = "vchartered.request"

// RequestContext is built once per request from the session token and
// passed to every handler. Nothing in it survives the request.
type RequestContext struct {
	Identity logicv1.Identity
	Token    string
}

// SessionMiddleware resolves the session token carried in the query string
// into a RequestContext.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query(h.sessionParam)
		rc := &RequestContext{
			Identity: h.sessions.Resolve(c.Request.Context(), token),
			Token:    token,
		}
		if !rc.Identity.Authenticated() {
			rc.Token = ""
		}

		c.Set(requestContextKey, rc)
		c.Set(middleware.IdentityKey, rc.Identity.Email)
		c.Next()
	}
}

func requestContext(c *gin.Context) *RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}
	return &RequestContext{}
}

// WithToken returns base with the session parameter set to token, keeping
// any other query parameters.
func WithToken(base, param, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(param, token)
	u.RawQuery = q.Encode()
	return u.String()
}

// WithoutToken returns base with the session parameter removed.
func WithoutToken(base, param string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Del(param)
	u.RawQuery = q.Encode()
	return u.String()
}
