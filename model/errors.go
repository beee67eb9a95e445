package model

import "github.com/pkg/errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrAlreadyScored   = errors.New("content already scored")
	ErrDuplicateFollow = errors.New("already following")
	ErrSelfFollow      = errors.New("users cannot follow themselves")
	ErrSelfContest     = errors.New("users cannot contest the score of their own freets")
	ErrInvalidKind     = errors.New("invalid child kind")
	ErrEmptyThread     = errors.New("thread needs at least one freet")
)
