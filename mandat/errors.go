package mandat

import (
	"errors"
	"fmt"
)

var (
	ErrSessionEnded      = errors.New("session already completed")
	ErrSessionNotStarted = errors.New("session not started")
	ErrOutOfTurn         = errors.New("action out of turn")
)

// ValidationError marks a rejected player action. The session state is left
// unchanged and the message is surfaced verbatim to the acting client only.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func errValidation(format string, args ...any) error {
	return ValidationError(fmt.Sprintf(format, args...))
}

// IsValidation reports whether err is a recoverable rule violation as
// opposed to a fatal session error.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
