package domain

import "errors"

var (
	ErrEmptySelection      = errors.New("select at least one option")
	ErrUnknownOption       = errors.New("selected option does not belong to this poll")
	ErrTooManySelections   = errors.New("only one option can be selected for this poll")
	ErrAlreadyVoted        = errors.New("you have already voted on this poll")
	ErrInvalidDraft        = errors.New("invalid poll draft")
	ErrNotFoundOrForbidden = errors.New("poll not found or you are not authorized")
	ErrPollExists          = errors.New("poll with this id already exists")
)
