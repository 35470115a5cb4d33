package session

import (
	"context"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	internal_errors "github.com/itchan-dev/bbs/shared/errors"
	"github.com/itchan-dev/bbs/shared/logger"
	"github.com/itchan-dev/bbs/shared/validation"
)

// DefaultKey is the storage key holding the logged-in user id.
const DefaultKey = "sess_user_id"

const (
	MsgLoginSuccess        = "login successful"
	MsgRestored            = "previous login restored"
	MsgLoggedOut           = "logged out"
	MsgRegistered          = "registration complete, please log in"
	MsgRegisteredLoggedIn  = "registration complete, you are now logged in"
	MsgSessionExpired      = "your login has expired, please log in again"
	MsgLoginUnavailable    = "login error: server unreachable"
	MsgRegisterUnavailable = "an error occurred during registration"
)

type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (domain.UserId, error)
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	Logout(ctx context.Context) error
}

type Options struct {
	// Key overrides DefaultKey.
	Key string
	// AutoLoginAfterRegister stores the submitted id as the session once the
	// server accepts a registration.
	AutoLoginAfterRegister bool
}

// Store is the client's belief about who is logged in. The only mutators are
// login, register (with auto login), logout and ExpireSession.
// Not safe for concurrent use.
type Store struct {
	api     AuthAPI
	storage Storage
	opts    Options

	userId   domain.UserId
	loginErr string
	loginMsg string
	loading  bool
}

func NewStore(authAPI AuthAPI, storage Storage, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	return &Store{api: authAPI, storage: storage, opts: opts}
}

func (s *Store) UserID() domain.UserId { return s.userId }

// LoggedIn is derived from the user id so the two cannot disagree.
func (s *Store) LoggedIn() bool { return s.userId != "" }

func (s *Store) LoginErr() string { return s.loginErr }
func (s *Store) LoginMsg() string { return s.loginMsg }
func (s *Store) Loading() bool    { return s.loading }

// Restore loads the persisted user id. No network call; calling it again
// yields the same state.
func (s *Store) Restore(ctx context.Context) bool {
	id, ok, err := s.storage.Get(ctx, s.opts.Key)
	if err != nil {
		logger.Log.Warn("cannot restore session", "error", err)
		return false
	}
	if !ok || id == "" {
		return false
	}
	s.userId = id
	s.loginMsg = MsgRestored
	logger.Log.Debug("session restored", "user", id)
	return true
}

// Login validates locally, then asks the server. On success the password in
// creds is cleared. A failed login leaves the session untouched.
func (s *Store) Login(ctx context.Context, creds *domain.Credentials) (domain.UserId, error) {
	if s.loading {
		return "", internal_errors.ErrBusy
	}
	s.loginErr, s.loginMsg = "", ""

	req := api.LoginRequest{Id: creds.Id, Password: creds.Password}
	if err := validation.Struct(req); err != nil {
		s.loginErr = internal_errors.UserMessage(err, MsgLoginUnavailable)
		return "", err
	}

	s.loading = true
	defer func() { s.loading = false }()

	id, err := s.api.Login(ctx, req)
	if err != nil {
		s.loginErr = internal_errors.UserMessage(err, MsgLoginUnavailable)
		return "", err
	}

	s.setUser(ctx, id)
	creds.Password = ""
	s.loginMsg = MsgLoginSuccess
	logger.Log.Info("logged in", "user", id)
	return id, nil
}

// Register validates locally (non-blank fields, id and email length) and
// returns the message to show on success.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	if s.loading {
		return "", internal_errors.ErrBusy
	}
	if err := validation.Struct(req); err != nil {
		return "", err
	}

	s.loading = true
	defer func() { s.loading = false }()

	msg, err := s.api.Register(ctx, req)
	if err != nil {
		return "", err
	}

	if s.opts.AutoLoginAfterRegister {
		s.loginErr = ""
		s.setUser(ctx, req.Id)
		logger.Log.Info("registered and logged in", "user", req.Id)
		if msg == "" {
			msg = MsgRegisteredLoggedIn
		}
		return msg, nil
	}
	if msg == "" {
		msg = MsgRegistered
	}
	return msg, nil
}

// Logout always clears the local session. A failed server call comes back
// as *LogoutWarning and is not fatal.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.clearUser(ctx)
	s.loginErr = ""
	s.loginMsg = MsgLoggedOut
	if err != nil {
		logger.Log.Warn("logout request failed, session cleared locally", "error", err)
		return &internal_errors.LogoutWarning{Err: err}
	}
	return nil
}

// ExpireSession is the forced logout applied when the server reports that
// the client is not authenticated.
func (s *Store) ExpireSession(ctx context.Context) {
	logger.Log.Info("server rejected session, logging out locally", "user", s.userId)
	s.clearUser(ctx)
	s.loginMsg = ""
	s.loginErr = MsgSessionExpired
}

func (s *Store) setUser(ctx context.Context, id domain.UserId) {
	s.userId = id
	if err := s.storage.Set(ctx, s.opts.Key, id); err != nil {
		logger.Log.Warn("cannot persist session", "error", err)
	}
}

func (s *Store) clearUser(ctx context.Context) {
	s.userId = ""
	if err := s.storage.Remove(ctx, s.opts.Key); err != nil {
		logger.Log.Warn("cannot remove persisted session", "error", err)
	}
}
