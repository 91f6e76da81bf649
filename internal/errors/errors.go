package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/duet/internal/logger"
)

// ErrSchedulerExhausted marks a scheduled tick that fired after its step was
// left or its session closed. Such ticks are dropped, never applied.
var ErrSchedulerExhausted = stderrors.New("scheduler could not cancel a pending tick")

// RemoteWriteError wraps a failed repository write. Callers keep their local
// optimistic state and only log or report it.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote write %s failed: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// NewRemoteWriteError wraps err, returning nil when err is nil
func NewRemoteWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteWriteError{Op: op, Err: err}
}

// IsRemoteWrite reports whether err came from a failed repository write
func IsRemoteWrite(err error) bool {
	var rw *RemoteWriteError
	return stderrors.As(err, &rw)
}

// UserMessage returns text safe to show an end user for err. Details stay in the log.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsRemoteWrite(err):
		return "Couldn't save that right now. It will stay on this screen; try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
