package setup

import (
	"github.com/itchan-dev/bbs/backend/internal/handler"
	"github.com/itchan-dev/bbs/backend/internal/service"
	"github.com/itchan-dev/bbs/backend/internal/storage/memory"
	"github.com/itchan-dev/bbs/shared/config"
	"github.com/itchan-dev/bbs/shared/jwt"
	"github.com/itchan-dev/bbs/shared/logger"
	"github.com/itchan-dev/bbs/shared/middleware"
	"github.com/itchan-dev/bbs/shared/utils"
)

const generatedKeyLen = 48

// Dependencies holds all the initialized services and handlers.
type Dependencies struct {
	Storage        *memory.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Config         *config.Config
}

// SetupDependencies initializes all the application dependencies.
func SetupDependencies(cfg *config.Config) *Dependencies {
	storage := memory.New()

	jwtKey := cfg.JwtKey()
	if jwtKey == "" {
		logger.Log.Warn("no jwt_key configured, generated a random one; tokens will not survive a restart")
		jwtKey = utils.GenerateKey(generatedKeyLen)
	}
	jwtService := jwt.New(jwtKey, cfg.Public.Server.JwtTTL)

	authService := service.NewAuth(storage, jwtService)
	boardService := service.NewBoard(storage, cfg.Public.Server.MaxPageSize)

	authMiddleware := middleware.NewAuth(jwtService, storage, cfg.Public.Server.SecureCookies)
	h := handler.New(authService, boardService, authMiddleware, cfg)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMiddleware,
		Config:         cfg,
	}
}
