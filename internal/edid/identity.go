// Package edid resolves connector handles to monitor identities by reading
// and parsing the EDID output property.
package edid

import (
	edidparser "github.com/anoopengineer/edidparser/edid"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"

	"randrd/internal/config"
	"randrd/internal/xrandr"
)

// EDID maxes out at 256 bytes; the property request length is in 32-bit
// units.
const propertyLength = 64

// blockSize is the length of the base EDID block.
const blockSize = 128

// Identity reads the EDID property of output and parses it into a monitor
// identity. A connector with no EDID, or with one that does not parse, is
// reported as ok=false: that simply means no monitor is attached there. A
// transport-level failure is logged and also yields ok=false, so a single
// bad connector never aborts a reconciliation pass.
func Identity(c xrandr.Client, output randr.Output, atom xproto.Atom, logger *zap.Logger) (config.Monitor, bool) {
	data, err := c.OutputProperty(output, atom, propertyLength)
	if err != nil {
		logger.Warn("reading EDID failed",
			zap.Uint32("output", uint32(output)),
			zap.Error(err))
		return config.Monitor{}, false
	}
	if len(data) < blockSize {
		return config.Monitor{}, false
	}

	parsed, err := edidparser.NewEdid(data)
	if err != nil {
		return config.Monitor{}, false
	}
	return config.Monitor{
		Product: parsed.MonitorName,
		Serial:  parsed.MonitorSerialNumber,
	}, true
}

// Resolve maps every connector with a readable identity to its monitor.
// Connectors without one are dropped; they remain valid outputs that simply
// receive no configuration.
func Resolve(c xrandr.Client, outputs []randr.Output, atom xproto.Atom, logger *zap.Logger) map[randr.Output]config.Monitor {
	monitors := make(map[randr.Output]config.Monitor, len(outputs))
	for _, out := range outputs {
		if mon, ok := Identity(c, out, atom, logger); ok {
			monitors[out] = mon
		}
	}
	return monitors
}
