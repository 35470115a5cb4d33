package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itchan-dev/bbs/shared/api"
	jwt_internal "github.com/itchan-dev/bbs/shared/jwt"
	"github.com/itchan-dev/bbs/shared/utils"
)

// CookieName holds the access token for browser-like clients.
const CookieName = "accessToken"

// MsgLoginRequired is the failure message for protected endpoints without a
// usable token. Clients treat it as a lost session.
const MsgLoginRequired = "login required"

// RevocationList reports tokens invalidated by logout.
type RevocationList interface {
	IsRevoked(jti string) bool
}

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	revoked       RevocationList
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, revoked RevocationList, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		revoked:       revoked,
		secureCookies: secureCookies,
	}
}

// NeedAuth returns middleware that requires a valid, unrevoked token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.extractClaims(r)
			if err != nil {
				if err == errRevoked {
					a.ClearCookie(w)
				}
				utils.WriteJSON(w, http.StatusUnauthorized, api.Fail(MsgLoginRequired))
				return
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates the claims when the token is valid but lets every
// request through.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := a.extractClaims(r)
			if claims != nil {
				ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetCookie stores token in the HttpOnly access cookie.
func (a *Auth) SetCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     CookieName,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) ClearCookie(w http.ResponseWriter) {
	a.SetCookie(w, "", -1)
}

// extractClaims reads the token from the cookie, then from the
// Authorization header.
func (a *Auth) extractClaims(r *http.Request) (*jwt_internal.Claims, error) {
	var tokenString string
	if accessCookie, err := r.Cookie(CookieName); err == nil {
		tokenString = accessCookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}

	if tokenString == "" {
		return nil, errNoToken
	}

	claims, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, err
	}

	if a.revoked != nil && a.revoked.IsRevoked(claims.ID) {
		return nil, errRevoked
	}
	return claims, nil
}

// Sentinel errors for extractClaims
var (
	errNoToken = errorString("no token")
	errRevoked = errorString("revoked")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// GetClaimsFromContext returns nil when the request is not authenticated.
func GetClaimsFromContext(r *http.Request) *jwt_internal.Claims {
	claims, ok := r.Context().Value(UserClaimsKey).(*jwt_internal.Claims)
	if !ok {
		return nil
	}
	return claims
}
