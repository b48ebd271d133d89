package xrandr

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Conn is the live X connection with the RandR extension initialized. It
// implements Client and additionally owns the root window, the EDID atom,
// and event delivery for the daemon loop.
type Conn struct {
	x    *xgb.Conn
	root xproto.Window
	edid xproto.Atom
}

// Connect opens a connection to the X server named by display (empty means
// $DISPLAY), initializes RandR, and resolves the default screen's root
// window. RandR 1.3 is required for primary-output control.
func Connect(display string) (*Conn, error) {
	x, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	if err := randr.Init(x); err != nil {
		x.Close()
		return nil, fmt.Errorf("initialize RandR extension: %w", err)
	}
	version, err := randr.QueryVersion(x, 1, 3).Reply()
	if err != nil {
		x.Close()
		return nil, fmt.Errorf("query RandR version: %w", err)
	}
	if version.MajorVersion < 1 || (version.MajorVersion == 1 && version.MinorVersion < 3) {
		x.Close()
		return nil, fmt.Errorf("RandR %d.%d too old, need at least 1.3",
			version.MajorVersion, version.MinorVersion)
	}

	root := xproto.Setup(x).DefaultScreen(x).Root
	return &Conn{x: x, root: root}, nil
}

// Close terminates the connection. Any blocked WaitForEvent returns after
// Close; the daemon uses this as its only cancellation path.
func (c *Conn) Close() {
	c.x.Close()
}

// Root returns the default screen's root window.
func (c *Conn) Root() xproto.Window {
	return c.root
}

// EDIDAtom interns the EDID property atom on first use and caches it.
func (c *Conn) EDIDAtom() (xproto.Atom, error) {
	if c.edid != xproto.AtomNone {
		return c.edid, nil
	}
	reply, err := xproto.InternAtom(c.x, false, uint16(len("EDID")), "EDID").Reply()
	if err != nil {
		return xproto.AtomNone, fmt.Errorf("intern EDID atom: %w", err)
	}
	c.edid = reply.Atom
	return c.edid, nil
}

// SelectScreenChange subscribes to the RandR notifications that signal a
// change in the attached-monitor set.
func (c *Conn) SelectScreenChange() error {
	mask := uint16(randr.NotifyMaskScreenChange |
		randr.NotifyMaskOutputChange |
		randr.NotifyMaskCrtcChange)
	if err := randr.SelectInputChecked(c.x, c.root, mask).Check(); err != nil {
		return fmt.Errorf("select RandR input: %w", err)
	}
	return nil
}

// WaitForEvent blocks until the next X event. Both return values are nil
// once the connection is closed.
func (c *Conn) WaitForEvent() (xgb.Event, error) {
	ev, err := c.x.WaitForEvent()
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (c *Conn) ScreenResources(root xproto.Window) (*randr.GetScreenResourcesReply, error) {
	return randr.GetScreenResources(c.x, root).Reply()
}

func (c *Conn) ScreenResourcesCurrent(root xproto.Window) (*randr.GetScreenResourcesCurrentReply, error) {
	return randr.GetScreenResourcesCurrent(c.x, root).Reply()
}

func (c *Conn) OutputInfo(output randr.Output, ts xproto.Timestamp) (*randr.GetOutputInfoReply, error) {
	return randr.GetOutputInfo(c.x, output, ts).Reply()
}

func (c *Conn) CrtcInfo(crtc randr.Crtc, ts xproto.Timestamp) (*randr.GetCrtcInfoReply, error) {
	return randr.GetCrtcInfo(c.x, crtc, ts).Reply()
}

func (c *Conn) SetCrtcConfig(crtc randr.Crtc, ts, cfgTS xproto.Timestamp, x, y int16,
	mode randr.Mode, rotation uint16, outputs []randr.Output) (*randr.SetCrtcConfigReply, error) {
	return randr.SetCrtcConfig(c.x, crtc, ts, cfgTS, x, y, mode, rotation, outputs).Reply()
}

func (c *Conn) SetScreenSize(root xproto.Window, w, h uint16, mmWidth, mmHeight uint32) error {
	return randr.SetScreenSizeChecked(c.x, root, w, h, mmWidth, mmHeight).Check()
}

func (c *Conn) OutputProperty(output randr.Output, property xproto.Atom, length uint32) ([]byte, error) {
	reply, err := randr.GetOutputProperty(c.x, output, property, xproto.AtomAny, 0, length, false, false).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}

func (c *Conn) SetOutputPrimary(root xproto.Window, output randr.Output) error {
	return randr.SetOutputPrimaryChecked(c.x, root, output).Check()
}
