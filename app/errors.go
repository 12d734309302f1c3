package app

import (
	"errors"
	"fmt"

	"bitbucket.org/kleinnic74/dotto/consts"
	"bitbucket.org/kleinnic74/dotto/loop"
)

// StartupError is a fatal failure before the frame loop was entered
type StartupError struct {
	Code consts.ExitCode
	Err  error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed (%s): %s", e.Code, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func startupError(code consts.ExitCode, err error) error {
	var se *StartupError
	if errors.As(err, &se) {
		return err
	}
	return &StartupError{Code: code, Err: err}
}

// ExitCode maps an error returned by NewApp or Run to the process exit code
func ExitCode(err error) consts.ExitCode {
	if err == nil {
		return consts.ExitOK
	}
	var se *StartupError
	if errors.As(err, &se) {
		return se.Code
	}
	if errors.Is(err, loop.ErrRuntimeGPU) {
		return consts.ExitRuntimeGPU
	}
	return consts.ExitFailure
}
