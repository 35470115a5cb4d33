package handler

import (
	"net/http"

	"github.com/itchan-dev/bbs/shared/api"
	"github.com/itchan-dev/bbs/shared/domain"
	mw "github.com/itchan-dev/bbs/shared/middleware"
	"github.com/itchan-dev/bbs/shared/utils"
)

const (
	msgRegistered = "registration complete, please log in"
	msgLoggedIn   = "login successful"
	msgLoggedOut  = "logged out"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.auth.Register(body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteOK(w, nil, msgRegistered)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, claims, err := h.auth.Login(domain.Credentials{Id: body.Id, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.cookies.SetCookie(w, token, cookieMaxAge(claims))

	utils.WriteOK(w, api.LoginResponse{Id: claims.UserId}, msgLoggedIn)
}

// Logout always succeeds and expires the cookie. A valid token is revoked.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := mw.GetClaimsFromContext(r); claims != nil {
		h.auth.Logout(claims)
	}
	h.cookies.ClearCookie(w)

	utils.WriteOK(w, nil, msgLoggedOut)
}
