package cli

import (
	"fmt"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

// Process exit codes
const (
	exitFailure     = 1
	exitNotFound    = 3
	exitValidation  = 4
	exitUnavailable = 5
)

// ExitError is an error that carries a process exit code.
// Commands return it to tell main how to exit.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitError maps a coded error to an ExitError, prefixing the message
func exitError(err error, format string, args ...any) *ExitError {
	code := exitFailure
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		code = exitNotFound
	case errors.CodeValidation, errors.CodeInvalidArgument:
		code = exitValidation
	case errors.CodeUnavailable:
		code = exitUnavailable
	}

	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...) + ": " + err.Error(),
		Err:     err,
	}
}
