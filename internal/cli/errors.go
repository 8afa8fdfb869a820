package cli

import (
	"errors"
	"fmt"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
	"github.com/reelfeed/reelfeed/internal/source/httpapi"
)

// Process exit codes.
const (
	ExitCodeOK          = 0
	ExitCodeError       = 1
	ExitCodeUsage       = 2
	ExitCodeUnavailable = 3
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError marks err as caused by bad flags, arguments or config.
func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCodeUsage, Err: err}
}

// ExitCode picks the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, feed.ErrSourceUnavailable) || errors.Is(err, httpapi.ErrIncompatibleAPI) {
		return ExitCodeUnavailable
	}
	return ExitCodeError
}
