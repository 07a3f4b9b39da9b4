package myerrors

import "errors"

var (
	ErrEmailRegistered = errors.New("email already registered")
	ErrPhoneRegistered = errors.New("phone already registered")
	ErrUnknownEmail    = errors.New("unknown email")
	ErrUnknownPassword = errors.New("unknown password")
)
