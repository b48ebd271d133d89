package xrandr

import (
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Client is the narrow protocol surface consumed by the identity resolver
// and the reconciliation engine. The live implementation is *Conn; tests use
// a recording fake. Handles (randr.Output, randr.Crtc, randr.Mode) stay
// opaque: they are compared, never computed with.
type Client interface {
	// ScreenResources queries the full screen resources, regenerating mode
	// information. Used to build the resolution -> mode id map.
	ScreenResources(root xproto.Window) (*randr.GetScreenResourcesReply, error)

	// ScreenResourcesCurrent returns the current resources snapshot without
	// forcing the server to repoll hardware.
	ScreenResourcesCurrent(root xproto.Window) (*randr.GetScreenResourcesCurrentReply, error)

	// OutputInfo describes one connector: supported modes, compatible CRTCs,
	// current CRTC binding, physical size, and name.
	OutputInfo(output randr.Output, ts xproto.Timestamp) (*randr.GetOutputInfoReply, error)

	// CrtcInfo describes one CRTC's live state.
	CrtcInfo(crtc randr.Crtc, ts xproto.Timestamp) (*randr.GetCrtcInfoReply, error)

	// SetCrtcConfig reconfigures a CRTC. An empty outputs slice with mode 0
	// disables it.
	SetCrtcConfig(crtc randr.Crtc, ts, cfgTS xproto.Timestamp, x, y int16,
		mode randr.Mode, rotation uint16, outputs []randr.Output) (*randr.SetCrtcConfigReply, error)

	// SetScreenSize resizes the virtual screen.
	SetScreenSize(root xproto.Window, w, h uint16, mmWidth, mmHeight uint32) error

	// OutputProperty reads up to 4*length bytes of a property; used for EDID.
	OutputProperty(output randr.Output, property xproto.Atom, length uint32) ([]byte, error)

	// SetOutputPrimary marks the primary output; 0 clears it.
	SetOutputPrimary(root xproto.Window, output randr.Output) error
}
