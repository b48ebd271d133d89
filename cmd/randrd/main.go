// Command randrd watches an X server for monitor hotplug events and keeps
// the screen configured according to the layout table in its config file.
// Each applied layout's name is printed to stdout so scripts can react to
// layout switches.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"randrd/internal/daemon"
)

// Exit codes distinguish startup failures for supervisors and scripts.
const (
	exitFailure     = 1
	exitConfig      = 2
	exitConnect     = 3
	exitAtom        = 4
	exitSelectInput = 5
	exitLock        = 6
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitError tags a startup failure with its exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var sel *daemon.SelectInputError
	if errors.As(err, &sel) {
		return exitSelectInput
	}
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		return exitLock
	}
	return exitFailure
}
