// Package testsupport provides shared helpers for exercising the
// reconciliation engine without an X server: a recording fake protocol
// client and a synthetic EDID builder.
package testsupport

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Op is one recorded hardware mutation. Tests assert on the sequence to
// verify the disable -> resize -> enable ordering invariant.
type Op struct {
	Name      string // "disable", "enable", "screen-size", "primary"
	Crtc      randr.Crtc
	Output    randr.Output
	Mode      randr.Mode
	X, Y      int16
	W, H      uint16
	Timestamp xproto.Timestamp
}

// FakeClient implements xrandr.Client against an in-memory hardware model.
// SetCrtcConfig mutates the model, so re-running the engine observes the
// state left behind by the previous pass.
type FakeClient struct {
	Resources     *randr.GetScreenResourcesCurrentReply
	ModeResources *randr.GetScreenResourcesReply
	OutputInfos   map[randr.Output]*randr.GetOutputInfoReply
	CrtcInfos     map[randr.Crtc]*randr.GetCrtcInfoReply
	EDIDs         map[randr.Output][]byte
	EDIDErrs      map[randr.Output]error

	// ReplyTimestamp is stamped on SetCrtcConfig replies, modelling the
	// server moving its configuration timestamp forward.
	ReplyTimestamp xproto.Timestamp

	Primary randr.Output
	Ops     []Op

	// Fail, when set, makes the named op return an error.
	Fail map[string]error
}

// NewFakeClient returns an empty hardware model at timestamp 100.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Resources:      &randr.GetScreenResourcesCurrentReply{Timestamp: 100, ConfigTimestamp: 100},
		ModeResources:  &randr.GetScreenResourcesReply{Timestamp: 100, ConfigTimestamp: 100},
		OutputInfos:    map[randr.Output]*randr.GetOutputInfoReply{},
		CrtcInfos:      map[randr.Crtc]*randr.GetCrtcInfoReply{},
		EDIDs:          map[randr.Output][]byte{},
		EDIDErrs:       map[randr.Output]error{},
		ReplyTimestamp: 100,
		Fail:           map[string]error{},
	}
}

// AddMode registers a server-side mode id with its resolution.
func (f *FakeClient) AddMode(id uint32, w, h uint16) {
	info := randr.ModeInfo{Id: id, Width: w, Height: h}
	f.ModeResources.Modes = append(f.ModeResources.Modes, info)
	f.ModeResources.NumModes++
	f.Resources.Modes = append(f.Resources.Modes, info)
	f.Resources.NumModes++
}

// AddCrtc registers an idle CRTC.
func (f *FakeClient) AddCrtc(id randr.Crtc) {
	f.Resources.Crtcs = append(f.Resources.Crtcs, id)
	f.Resources.NumCrtcs++
	f.CrtcInfos[id] = &randr.GetCrtcInfoReply{Timestamp: 100}
}

// AddOutput registers a connector supporting the given modes, compatible
// with the given CRTCs, currently unbound.
func (f *FakeClient) AddOutput(id randr.Output, name string, crtcs []randr.Crtc, modes []randr.Mode) {
	f.Resources.Outputs = append(f.Resources.Outputs, id)
	f.Resources.NumOutputs++
	f.OutputInfos[id] = &randr.GetOutputInfoReply{
		Timestamp:  100,
		Connection: randr.ConnectionConnected,
		MmWidth:    600,
		MmHeight:   340,
		Crtcs:      crtcs,
		NumCrtcs:   uint16(len(crtcs)),
		Modes:      modes,
		NumModes:   uint16(len(modes)),
		Name:       []byte(name),
		NameLen:    uint16(len(name)),
	}
}

// Bind puts an output and CRTC into a live configured state.
func (f *FakeClient) Bind(out randr.Output, crtc randr.Crtc, x, y int16, mode randr.Mode) {
	f.OutputInfos[out].Crtc = crtc
	ci := f.CrtcInfos[crtc]
	ci.X, ci.Y = x, y
	ci.Mode = mode
	ci.Rotation = randr.RotationRotate0
	ci.Outputs = []randr.Output{out}
	ci.NumOutputs = 1
	ci.Width, ci.Height = f.modeSize(mode)
}

func (f *FakeClient) modeSize(mode randr.Mode) (uint16, uint16) {
	for _, mi := range f.ModeResources.Modes {
		if mi.Id == uint32(mode) {
			return mi.Width, mi.Height
		}
	}
	return 0, 0
}

// OpNames returns the recorded op sequence, for order assertions.
func (f *FakeClient) OpNames() []string {
	names := make([]string, len(f.Ops))
	for i, op := range f.Ops {
		names[i] = op.Name
	}
	return names
}

func (f *FakeClient) ScreenResources(root xproto.Window) (*randr.GetScreenResourcesReply, error) {
	if err := f.Fail["screen-resources"]; err != nil {
		return nil, err
	}
	return f.ModeResources, nil
}

func (f *FakeClient) ScreenResourcesCurrent(root xproto.Window) (*randr.GetScreenResourcesCurrentReply, error) {
	if err := f.Fail["screen-resources-current"]; err != nil {
		return nil, err
	}
	return f.Resources, nil
}

func (f *FakeClient) OutputInfo(output randr.Output, ts xproto.Timestamp) (*randr.GetOutputInfoReply, error) {
	info, ok := f.OutputInfos[output]
	if !ok {
		return nil, fmt.Errorf("fake: unknown output %d", output)
	}
	return info, nil
}

func (f *FakeClient) CrtcInfo(crtc randr.Crtc, ts xproto.Timestamp) (*randr.GetCrtcInfoReply, error) {
	info, ok := f.CrtcInfos[crtc]
	if !ok {
		return nil, fmt.Errorf("fake: unknown crtc %d", crtc)
	}
	return info, nil
}

func (f *FakeClient) SetCrtcConfig(crtc randr.Crtc, ts, cfgTS xproto.Timestamp, x, y int16,
	mode randr.Mode, rotation uint16, outputs []randr.Output) (*randr.SetCrtcConfigReply, error) {
	ci, ok := f.CrtcInfos[crtc]
	if !ok {
		return nil, fmt.Errorf("fake: unknown crtc %d", crtc)
	}

	name := "enable"
	if mode == 0 && len(outputs) == 0 {
		name = "disable"
	}
	if err := f.Fail[name]; err != nil {
		return nil, err
	}

	op := Op{Name: name, Crtc: crtc, X: x, Y: y, Mode: mode, Timestamp: ts}
	if len(outputs) > 0 {
		op.Output = outputs[0]
	}
	f.Ops = append(f.Ops, op)

	// Rebind the model: outputs previously driven by this CRTC are released,
	// the new outputs point at it.
	for _, info := range f.OutputInfos {
		if info.Crtc == crtc {
			info.Crtc = 0
		}
	}
	for _, out := range outputs {
		if info, ok := f.OutputInfos[out]; ok {
			info.Crtc = crtc
		}
	}

	ci.X, ci.Y = x, y
	ci.Mode = mode
	ci.Rotation = rotation
	ci.Outputs = append([]randr.Output(nil), outputs...)
	ci.NumOutputs = uint16(len(outputs))
	ci.Width, ci.Height = f.modeSize(mode)

	return &randr.SetCrtcConfigReply{Timestamp: f.ReplyTimestamp}, nil
}

func (f *FakeClient) SetScreenSize(root xproto.Window, w, h uint16, mmWidth, mmHeight uint32) error {
	if err := f.Fail["screen-size"]; err != nil {
		return err
	}
	f.Ops = append(f.Ops, Op{Name: "screen-size", W: w, H: h})
	return nil
}

func (f *FakeClient) OutputProperty(output randr.Output, property xproto.Atom, length uint32) ([]byte, error) {
	if err := f.EDIDErrs[output]; err != nil {
		return nil, err
	}
	return f.EDIDs[output], nil
}

func (f *FakeClient) SetOutputPrimary(root xproto.Window, output randr.Output) error {
	if err := f.Fail["primary"]; err != nil {
		return err
	}
	f.Primary = output
	f.Ops = append(f.Ops, Op{Name: "primary", Output: output})
	return nil
}
