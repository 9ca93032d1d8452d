package domain

import "errors"

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidQuestionID = errors.New("invalid question id")
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrInternal          = errors.New("internal server error")
)
