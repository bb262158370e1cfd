package util

import "errors"

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrQuizNotFound     = errors.New("quiz not found in catalog")
	ErrQuizLocked       = errors.New("quiz is locked")
	ErrQuizInProgress   = errors.New("another quiz is already in progress")
	ErrNoActiveSession  = errors.New("no active quiz session")
	ErrSessionClosed    = errors.New("quiz session already finished")
	ErrQuestionIndex    = errors.New("question index out of range")
	ErrOptionIndex      = errors.New("option index out of range")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrInvalidStructure = errors.New("invalid course structure")
	ErrUnitIndex        = errors.New("unit index out of range")
)
