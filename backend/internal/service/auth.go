package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	"github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/jwt"
	"github.com/itchan-dev/bbs/shared/logger"
	"github.com/itchan-dev/bbs/shared/validation"
	"golang.org/x/crypto/bcrypt"
)

var errWrongCredentials = &errors.ErrorWithStatusCode{Message: "wrong id or password", StatusCode: http.StatusUnauthorized}

type AuthService interface {
	Register(req api.RegisterRequest) error
	Login(creds domain.Credentials) (string, *jwt.Claims, error)
	Logout(claims *jwt.Claims)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(user domain.User) error
	User(id domain.UserId) (domain.User, error)
	RevokeToken(jti string, expiresAt time.Time)
}

type Jwt interface {
	NewToken(userId domain.UserId) (string, *jwt.Claims, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

// Register checks the input rules, hashes the password and saves the user.
func (a *Auth) Register(req api.RegisterRequest) error {
	req.Id = strings.TrimSpace(req.Id)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := validation.Email(req.Email); err != nil {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := a.storage.SaveUser(domain.User{Id: req.Id, Email: req.Email, PassHash: string(passHash)}); err != nil {
		return err
	}
	logger.Log.Info("user registered", "user", req.Id)
	return nil
}

// Login returns a signed token and its claims.
func (a *Auth) Login(creds domain.Credentials) (string, *jwt.Claims, error) {
	user, err := a.storage.User(strings.TrimSpace(creds.Id))
	if err != nil {
		if errors.Is[*errors.ErrorWithStatusCode](err) {
			return "", nil, errWrongCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", nil, errWrongCredentials
	}

	token, claims, err := a.jwt.NewToken(user.Id)
	if err != nil {
		return "", nil, err
	}
	logger.Log.Info("user logged in", "user", user.Id)
	return token, claims, nil
}

// Logout revokes the token identified by claims until it would have expired.
func (a *Auth) Logout(claims *jwt.Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	a.storage.RevokeToken(claims.ID, expiresAt)
	logger.Log.Info("user logged out", "user", claims.UserId)
}
