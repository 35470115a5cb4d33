package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
)

// Claims carried by an access token. ID (jti) is unique per token so a
// single token can be revoked on logout.
type Claims struct {
	UserId domain.UserId `json:"uid"`
	jwt.RegisteredClaims
}

type JwtService interface {
	NewToken(userId domain.UserId) (string, *Claims, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) TTL() time.Duration { return j.ttl }

func (j *Jwt) NewToken(userId domain.UserId) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("cannot sign token", "error", err)
		return "", nil, errors.New("can't create token")
	}

	return tokenString, claims, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, &internal_errors.ErrorWithStatusCode{Message: "invalid access token", StatusCode: http.StatusUnauthorized}
	}

	if !token.Valid || claims.UserId == "" || claims.ID == "" {
		return nil, &internal_errors.ErrorWithStatusCode{Message: "invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return claims, nil
}
