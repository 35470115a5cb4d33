package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
)

// Login sends credentials. The server may answer with {id}, a bare id
// string or no data at all; the submitted id is used in the last case.
func (c *APIClient) Login(ctx context.Context, req api.LoginRequest) (domain.UserId, error) {
	env, err := c.Call(ctx, http.MethodPost, "/api/user/login", req)
	if err != nil {
		return "", err
	}
	if err := env.Err(c.classifier, MsgLoginFailed); err != nil {
		return "", err
	}
	if !env.HasData() {
		return req.Id, nil
	}

	var id domain.UserId
	if err := json.Unmarshal(env.Data, &id); err == nil && id != "" {
		return id, nil
	}
	var resp api.LoginResponse
	if err := decodeData(env, &resp); err != nil {
		return "", err
	}
	if resp.Id == "" {
		return req.Id, nil
	}
	return resp.Id, nil
}

// Register returns the server message on success (may be empty).
func (c *APIClient) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	env, err := c.Call(ctx, http.MethodPost, "/api/user/register", req)
	if err != nil {
		return "", err
	}
	if err := env.Err(c.classifier, MsgRegisterFailed); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	env, err := c.Call(ctx, http.MethodPost, "/api/user/logout", nil)
	if err != nil {
		return err
	}
	return env.Err(c.classifier, MsgLogoutFailed)
}
