package engine

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/randr"

	"randrd/internal/config"
)

// NoMatchError reports that the attached monitor set is not keyed by any
// configured layout. Monitors holds the observed set in canonical order.
type NoMatchError struct {
	Monitors []config.Monitor
}

func (e *NoMatchError) Error() string {
	if len(e.Monitors) == 0 {
		return "no layout matches: no identifiable monitors attached"
	}
	names := make([]string, len(e.Monitors))
	for i, m := range e.Monitors {
		names[i] = m.String()
	}
	return fmt.Sprintf("no layout matches attached monitors [%s]", strings.Join(names, ", "))
}

// ModeNotFoundError reports that the server knows no mode with the desired
// resolution at all.
type ModeNotFoundError struct {
	Mode config.Mode
}

func (e *ModeNotFoundError) Error() string {
	return fmt.Sprintf("desired mode %s not known to the server", e.Mode)
}

// ModeUnsupportedError reports that an output supports none of the mode ids
// carrying the desired resolution.
type ModeUnsupportedError struct {
	Output     randr.Output
	OutputName string
	Mode       config.Mode
}

func (e *ModeUnsupportedError) Error() string {
	return fmt.Sprintf("output %s does not support mode %s", e.OutputName, e.Mode)
}

// NoFreeCrtcError reports CRTC exhaustion: every controller compatible with
// the output was already claimed earlier in the pass.
type NoFreeCrtcError struct {
	Output     randr.Output
	OutputName string
}

func (e *NoFreeCrtcError) Error() string {
	return fmt.Sprintf("no free CRTC for output %s", e.OutputName)
}
