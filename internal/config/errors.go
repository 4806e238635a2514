package config

import "errors"

var (
	ErrInvalid       = errors.New("config: invalid configuration")
	ErrUnknownAction = errors.New("config: unknown event action")
)
