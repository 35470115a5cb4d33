package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itchan-dev/bbs/client/internal/apiclient"
	"github.com/itchan-dev/bbs/client/internal/board"
	"github.com/itchan-dev/bbs/client/internal/session"
	"github.com/itchan-dev/bbs/shared/config"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
)

const redisPingTimeout = 3 * time.Second

type Dependencies struct {
	APIClient *apiclient.APIClient
	Storage   session.Storage
	Session   *session.Store
	List      *board.List
	Cleanup   func()
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	classifier := internal_errors.NewClassifier(cfg.Public.AuthErrorMarkers)
	apiClient := apiclient.New(cfg.Public.APIBaseURL, cfg.Public.RequestTimeout, classifier)

	storage, cleanup, err := newStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session storage: %w", err)
	}

	store := session.NewStore(apiClient, storage, session.Options{
		Key:                    cfg.Public.Session.Key,
		AutoLoginAfterRegister: cfg.Public.AutoLoginAfterRegister,
	})
	list := board.NewList(apiClient, cfg.Public.PageSize)

	return &Dependencies{
		APIClient: apiClient,
		Storage:   storage,
		Session:   store,
		List:      list,
		Cleanup:   cleanup,
	}, nil
}

func newStorage(cfg *config.Config) (session.Storage, func(), error) {
	s := cfg.Public.Session
	switch s.Backend {
	case "", "memory":
		return session.NewMemoryStorage(), func() {}, nil
	case "file":
		return session.NewFileStorage(s.File), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     s.RedisAddr,
			DB:       s.RedisDB,
			Password: cfg.RedisPassword(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis %s unreachable: %w", s.RedisAddr, err)
		}
		logger.Log.Info("session storage on redis", "addr", s.RedisAddr, "db", s.RedisDB)
		return session.NewRedisStorage(client, "bbs", s.RedisTTL), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", s.Backend)
	}
}
