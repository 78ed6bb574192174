package repositories

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrPhaseConflict  = errors.New("session is not in an expected phase")
	ErrAlreadyClaimed = errors.New("run already claimed")
)
