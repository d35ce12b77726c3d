package entity

import "errors"

var (
	ErrUserValidation  = errors.New("invalid user input")
	ErrOrderValidation = errors.New("invalid order request")
	ErrOrderConflict   = errors.New("order conflict")
)
