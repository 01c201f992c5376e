package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConcurrentUpdate  = errors.New("concurrent update")
	ErrInvalidTransition = errors.New("invalid state transition")
)
