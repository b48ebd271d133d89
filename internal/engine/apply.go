package engine

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"randrd/internal/xrandr"
)

// Apply executes a plan in its three stages: disable stale CRTCs, resize the
// virtual screen to the pass minimum, enable reconfigured CRTCs. If the
// disables moved the server's configuration timestamp forward, every enable
// is stamped with the newer timestamp so the server does not reject it as
// stale. After the enables, the primary output is installed and the screen
// is grown to the layout's declared framebuffer size when that differs from
// the computed minimum.
//
// Failures abort the remaining stages; partially applied state is not
// rolled back.
func Apply(c xrandr.Client, root xproto.Window, p *Plan) (bool, error) {
	if p.Empty() {
		return false, nil
	}

	var newest xproto.Timestamp
	for _, op := range p.disables {
		reply, err := c.SetCrtcConfig(op.crtc, op.timestamp, op.timestamp,
			op.x, op.y, 0, op.rotation, nil)
		if err != nil {
			return false, fmt.Errorf("disable crtc %d: %w", op.crtc, err)
		}
		if reply.Timestamp > newest {
			newest = reply.Timestamp
		}
	}

	if err := c.SetScreenSize(root, p.screen.W, p.screen.H, p.screen.MMWidth, p.screen.MMHeight); err != nil {
		return false, fmt.Errorf("resize screen to %dx%d: %w", p.screen.W, p.screen.H, err)
	}

	for _, op := range p.enables {
		ts := op.timestamp
		if newest != 0 {
			ts = newest
		}
		if _, err := c.SetCrtcConfig(op.crtc, ts, op.timestamp,
			op.x, op.y, op.mode, op.rotation, op.outputs); err != nil {
			return false, fmt.Errorf("enable crtc %d: %w", op.crtc, err)
		}
	}

	if p.primary != 0 {
		if err := c.SetOutputPrimary(root, p.primary); err != nil {
			return false, fmt.Errorf("set primary output %d: %w", p.primary, err)
		}
	}

	if p.fbSize.W != p.screen.W || p.fbSize.H != p.screen.H {
		if err := c.SetScreenSize(root, p.fbSize.W, p.fbSize.H, p.screen.MMWidth, p.screen.MMHeight); err != nil {
			return false, fmt.Errorf("resize screen to %s: %w", p.fbSize, err)
		}
	}
	return true, nil
}
