package handler

import (
	"net/http"

	"github.com/itchan-dev/bbs/backend/internal/service"
	"github.com/itchan-dev/bbs/shared/config"
	"github.com/itchan-dev/bbs/shared/jwt"
)

// CookieWriter sets and clears the access cookie.
type CookieWriter interface {
	SetCookie(w http.ResponseWriter, token string, maxAge int)
	ClearCookie(w http.ResponseWriter)
}

type Handler struct {
	auth    service.AuthService
	board   service.BoardService
	cookies CookieWriter
	cfg     *config.Config
}

func New(auth service.AuthService, board service.BoardService, cookies CookieWriter, cfg *config.Config) *Handler {
	return &Handler{auth: auth, board: board, cookies: cookies, cfg: cfg}
}

// cookieMaxAge follows the token lifetime.
func cookieMaxAge(claims *jwt.Claims) int {
	if claims == nil || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return 0
	}
	return int(claims.ExpiresAt.Sub(claims.IssuedAt.Time).Seconds())
}
