package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInternal              = errors.New("internal error")
	ErrUserSkillProfileEmpty = errors.New("user skill profile empty")
	ErrNotificationNotFound  = errors.New("notification not found")
)
