package api

import "github.com/itchan-dev/bbs/shared/domain"

// Request DTOs shared by backend and client. Tags are checked on both sides.

type LoginRequest struct {
	Id       domain.UserId   `json:"id" validate:"notblank"`
	Password domain.Password `json:"password" validate:"notblank"`
}

type RegisterRequest struct {
	Id       domain.UserId   `json:"id" validate:"notblank,max=20"`
	Password domain.Password `json:"password" validate:"notblank"`
	Email    domain.Email    `json:"email" validate:"notblank,max=45"`
}

// Response DTOs

type LoginResponse struct {
	Id domain.UserId `json:"id"`
}
