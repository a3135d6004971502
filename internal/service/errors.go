package service

import "errors"

var (
	ErrPasswordIncorrect = errors.New("password incorrect")
	ErrTokenIncorrect    = errors.New("token incorrect")
	ErrAdminDisabled     = errors.New("admin disabled")
)
