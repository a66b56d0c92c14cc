package cli

import "fmt"

// ExitError carries a process exit code through a failed command.
//
// RunE functions return one instead of calling os.Exit(), so commands can
// be executed in-process by tests and the code asserted on. [Execute]
// unwraps it at the top and hands the code to main.
type ExitError struct {
	// Code is the exit code to return to the shell: 0 success, 1 failure.
	Code int
}

// Error returns "exit status N", the same shape os/exec uses, so the
// message reads naturally if it ever surfaces unwrapped.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
//
//	if err != nil {
//	    app.Printer.Error("%v", err)
//	    return NewExitError(1)
//	}
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError reports whether err is an [ExitError], returning its code.
// Returns (0, false) for nil or any other error.
func IsExitError(err error) (int, bool) {
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code, true
	}
	return 0, false
}
