// Package errors provides error handling and recovery mechanisms for the bot.
// It defines the sentinel errors handlers use to distinguish expected
// conditions from real failures, plus an error counter with automatic
// shutdown on excessive errors.
package errors

import "errors"

// Sentinel errors for expected conditions. Handlers that receive one of
// these reply with a specific informative message instead of letting the
// interaction router produce its generic failure reply.
var (
	// ErrValidation marks a missing or ill-typed command parameter.
	ErrValidation = errors.New("parámetro inválido o faltante")

	// ErrNotFound marks a lookup with no record (unknown team, no warnings).
	ErrNotFound = errors.New("registro no encontrado")

	// ErrPrecondition marks an unmet precondition (caller not in a voice
	// channel, bot missing permissions).
	ErrPrecondition = errors.New("condición previa no cumplida")

	// ErrNoSession marks a transport command issued with no active
	// playback session for the channel.
	ErrNoSession = errors.New("no hay música reproduciéndose")
)

// Is reports whether any error in err's chain matches target.
// Re-exported so callers don't need a second errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
