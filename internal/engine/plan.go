package engine

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"randrd/internal/config"
	"randrd/internal/xrandr"
)

// crtcOp is one pending SetCrtcConfig request. A disable carries mode 0 and
// no outputs; an enable drives exactly one output.
type crtcOp struct {
	crtc      randr.Crtc
	timestamp xproto.Timestamp
	x, y      int16
	mode      randr.Mode
	rotation  uint16
	outputs   []randr.Output
}

// disableOp derives the request that turns a CRTC off, preserving its
// position and rotation as the protocol expects.
func disableOp(crtc randr.Crtc, from *randr.GetCrtcInfoReply) crtcOp {
	return crtcOp{
		crtc:      crtc,
		timestamp: from.Timestamp,
		x:         from.X,
		y:         from.Y,
		rotation:  from.Rotation,
	}
}

// Plan is a staged reconciliation transaction. The stages are ordered by a
// protocol invariant: every disable must be acknowledged before the virtual
// screen is resized, and the resize must precede every enable, otherwise the
// server rejects transient geometry that a CRTC still overhangs.
type Plan struct {
	disables []crtcOp
	enables  []crtcOp
	screen   geometry
	fbSize   config.Mode
	primary  randr.Output
}

// Empty reports whether the pass found nothing to change.
func (p *Plan) Empty() bool {
	return len(p.disables) == 0 && len(p.enables) == 0
}

func crtcActive(ci *randr.GetCrtcInfoReply) bool {
	return len(ci.Outputs) > 0 || ci.Mode != 0
}

// BuildPlan walks the snapshot's outputs in reported order, allocates a CRTC
// for each configured output, and emits enable operations for those whose
// live state differs from the desired one. CRTCs left unclaimed but still
// active carry stale state from the previous layout: they are scheduled for
// disabling and never handed to another output within the same pass.
func BuildPlan(c xrandr.Client, res *randr.GetScreenResourcesCurrentReply, m *Match,
	root xproto.Window) (*Plan, error) {

	modes, ts, err := modeMap(c, root)
	if err != nil {
		return nil, err
	}

	free := make(map[randr.Crtc]bool, len(res.Crtcs))
	crtcInfo := make(map[randr.Crtc]*randr.GetCrtcInfoReply, len(res.Crtcs))
	for _, crtc := range res.Crtcs {
		ci, err := c.CrtcInfo(crtc, ts)
		if err != nil {
			return nil, fmt.Errorf("get crtc info for %d: %w", crtc, err)
		}
		crtcInfo[crtc] = ci
		free[crtc] = true
	}

	plan := &Plan{fbSize: m.FBSize}
	for _, out := range res.Outputs {
		conf, ok := m.Setup[out]
		if !ok {
			continue
		}

		info, err := c.OutputInfo(out, ts)
		if err != nil {
			return nil, fmt.Errorf("get output info for %d: %w", out, err)
		}
		name := string(info.Name)

		ids, ok := modes[conf.Mode]
		if !ok {
			return nil, &ModeNotFoundError{Mode: conf.Mode}
		}
		mode := randr.Mode(0)
		for _, candidate := range info.Modes {
			if _, ok := ids[candidate]; ok {
				mode = candidate
				break
			}
		}
		if mode == 0 {
			return nil, &ModeUnsupportedError{Output: out, OutputName: name, Mode: conf.Mode}
		}

		// Reuse the output's bound CRTC when it has one; otherwise claim a
		// compatible controller that is both unclaimed and idle. Active ones
		// still belong to the outgoing layout until they are disabled.
		dest := info.Crtc
		if dest == 0 {
			for _, candidate := range info.Crtcs {
				if free[candidate] && !crtcActive(crtcInfo[candidate]) {
					dest = candidate
					break
				}
			}
		}
		if dest == 0 {
			return nil, &NoFreeCrtcError{Output: out, OutputName: name}
		}
		ci := crtcInfo[dest]

		plan.screen.addPhysical(info)
		plan.screen.foldDesired(conf)
		plan.screen.foldLive(ci)

		if conf.Position.X != ci.X || conf.Position.Y != ci.Y || mode != ci.Mode {
			op := disableOp(dest, ci)
			op.x, op.y = conf.Position.X, conf.Position.Y
			op.mode = mode
			op.outputs = []randr.Output{out}
			op.rotation = ci.Rotation
			if op.rotation == 0 {
				op.rotation = randr.RotationRotate0
			}
			plan.enables = append(plan.enables, op)
		}
		if conf.Primary {
			plan.primary = out
		}
		delete(free, dest)
	}

	// Anything never claimed this pass but still driving outputs is stale
	// hardware from the previous layout.
	for _, crtc := range res.Crtcs {
		if !free[crtc] {
			continue
		}
		if ci := crtcInfo[crtc]; crtcActive(ci) {
			plan.disables = append(plan.disables, disableOp(crtc, ci))
		}
	}
	return plan, nil
}
