package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers branch with errors.Is instead of matching
// message strings; store and transport root causes stay in the logs.
var (
	ErrInvalidArgument = errors.New("argument invalide")
	ErrValidation      = errors.New("validation échouée")
	ErrNotFound        = errors.New("introuvable")
	ErrPersistence     = errors.New("erreur de persistance")
	ErrTransport       = errors.New("erreur de transport")
)

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
