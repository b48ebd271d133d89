package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Monitor identifies a physical display by the product and serial strings
// advertised in its EDID descriptors. Either field may be empty when the
// panel does not advertise it; equality is structural.
type Monitor struct {
	Product string `toml:"product,omitempty"`
	Serial  string `toml:"serial,omitempty"`
}

// Less orders monitors by product, then serial. This is the canonical order
// used both when compiling layout keys and when matching live monitor sets.
func (m Monitor) Less(other Monitor) bool {
	if m.Product != other.Product {
		return m.Product < other.Product
	}
	return m.Serial < other.Serial
}

func (m Monitor) String() string {
	parts := make([]string, 0, 2)
	if m.Product != "" {
		parts = append(parts, fmt.Sprintf("product=%q", m.Product))
	}
	if m.Serial != "" {
		parts = append(parts, fmt.Sprintf("serial=%q", m.Serial))
	}
	if len(parts) == 0 {
		return "<unidentified>"
	}
	return strings.Join(parts, " ")
}

// Mode is a resolution descriptor, written in the config as "1920x1080".
type Mode struct {
	W uint16
	H uint16
}

// Union returns a mode large enough to contain both m and other.
func (m Mode) Union(other Mode) Mode {
	return Mode{W: max(m.W, other.W), H: max(m.H, other.H)}
}

func (m Mode) String() string {
	return fmt.Sprintf("%dx%d", m.W, m.H)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	w, h, err := splitPair(string(text))
	if err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	if w < 0 || w > 65535 || h < 0 || h > 65535 {
		return fmt.Errorf("mode %q: dimensions out of range", text)
	}
	m.W = uint16(w)
	m.H = uint16(h)
	return nil
}

// Position is the signed offset of an output's top-left corner in the
// virtual screen, written in the config as "0x0" or "1920x0".
type Position struct {
	X int16
	Y int16
}

func (p Position) String() string {
	return fmt.Sprintf("%dx%d", p.X, p.Y)
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	x, y, err := splitPair(string(text))
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if x < -32768 || x > 32767 || y < -32768 || y > 32767 {
		return fmt.Errorf("position %q: offsets out of range", text)
	}
	p.X = int16(x)
	p.Y = int16(y)
	return nil
}

func splitPair(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not of the form <a>x<b>", s)
	}
	av, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	bv, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	return av, bv, nil
}

// OutputConfig is the desired state of a single output within a layout.
type OutputConfig struct {
	Mode     Mode     `toml:"mode"`
	Position Position `toml:"position"`
	Primary  bool     `toml:"primary"`
}

// Layout is a compiled named layout: the framebuffer size needed to contain
// every positioned output, and the desired per-monitor state.
type Layout struct {
	Name   string
	FBSize Mode
	Setup  map[Monitor]OutputConfig
}

// Table is the authoritative lookup structure: compiled layouts keyed by the
// canonical key of the exact monitor set they expect.
type Table map[string]*Layout

// Lookup returns the layout keyed by the given monitor set, in any order.
func (t Table) Lookup(monitors []Monitor) (*Layout, bool) {
	l, ok := t[Key(monitors)]
	return l, ok
}

// SortMonitors sorts monitors in place into canonical order.
func SortMonitors(monitors []Monitor) {
	sort.Slice(monitors, func(i, j int) bool { return monitors[i].Less(monitors[j]) })
}

// Key derives the canonical lookup key for a monitor set. The input is not
// modified. Keys are order-independent: any permutation of the same monitors
// produces the same key.
func Key(monitors []Monitor) string {
	sorted := make([]Monitor, len(monitors))
	copy(sorted, monitors)
	SortMonitors(sorted)

	var b strings.Builder
	for _, m := range sorted {
		b.WriteString(m.Product)
		b.WriteByte(0x1f)
		b.WriteString(m.Serial)
		b.WriteByte(0x1e)
	}
	return b.String()
}
