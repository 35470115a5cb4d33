package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/bbs/backend/internal/service"
	"github.com/itchan-dev/bbs/shared/api"
	mw "github.com/itchan-dev/bbs/shared/middleware"
	"github.com/itchan-dev/bbs/shared/utils"
)

func (h *Handler) ListBoard(w http.ResponseWriter, r *http.Request) {
	page, err := parseQueryInt(r, "page", service.DefaultPage)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	size, err := parseQueryInt(r, "size", h.defaultPageSize())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	list, err := h.board.List(page, size)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, list, "")
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	idx, err := parseIdx(chi.URLParam(r, "idx"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	item, err := h.board.Get(idx)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, item, "")
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)

	var body api.BoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	item, err := h.board.Create(claims.UserId, body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, item, "post created")
}

func (h *Handler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)

	idx, err := parseIdx(chi.URLParam(r, "idx"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.BoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	item, err := h.board.Update(claims.UserId, idx, body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, item, "post updated")
}

func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	claims := mw.GetClaimsFromContext(r)

	idx, err := parseIdx(chi.URLParam(r, "idx"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.Delete(claims.UserId, idx); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteOK(w, nil, "post deleted")
}

func (h *Handler) defaultPageSize() int {
	if h.cfg != nil && h.cfg.Public.PageSize > 0 {
		return h.cfg.Public.PageSize
	}
	return service.DefaultPageSize
}
