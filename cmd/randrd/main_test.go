package main

import (
	"errors"
	"testing"

	"randrd/internal/daemon"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"config", &exitError{exitConfig, errors.New("bad toml")}, exitConfig},
		{"connect", &exitError{exitConnect, errors.New("no display")}, exitConnect},
		{"atom", &exitError{exitAtom, errors.New("intern failed")}, exitAtom},
		{"select input", &daemon.SelectInputError{Err: errors.New("bad window")}, exitSelectInput},
		{"lock held", daemon.ErrAlreadyRunning, exitLock},
		{"other", errors.New("boom"), exitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
