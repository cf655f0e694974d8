package apperror

import "errors"

var (
	ErrEmptyColorPool  = errors.New("color pool is empty")
	ErrMissingGameID   = errors.New("frame has no game id")
	ErrUnknownFrame    = errors.New("frame has no known discriminator field")
	ErrGameEnded       = errors.New("game is already ended")
	ErrAlreadySettled  = errors.New("points delta is already settled")
	ErrSessionFull     = errors.New("game session already has two players")
	ErrNoActiveSession = errors.New("no active game session")
)
