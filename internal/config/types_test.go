package config_test

import (
	"testing"

	"randrd/internal/config"
)

func TestModeTextRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want config.Mode
		ok   bool
	}{
		{"1920x1080", config.Mode{W: 1920, H: 1080}, true},
		{"640x480", config.Mode{W: 640, H: 480}, true},
		{"1920", config.Mode{}, false},
		{"axb", config.Mode{}, false},
		{"99999x100", config.Mode{}, false},
	}
	for _, tc := range cases {
		var m config.Mode
		err := m.UnmarshalText([]byte(tc.in))
		if tc.ok != (err == nil) {
			t.Fatalf("%q: unexpected error state: %v", tc.in, err)
		}
		if !tc.ok {
			continue
		}
		if m != tc.want {
			t.Fatalf("%q: got %v want %v", tc.in, m, tc.want)
		}
		if m.String() != tc.in {
			t.Fatalf("%q: round trip produced %q", tc.in, m.String())
		}
	}
}

func TestPositionAllowsNegativeOffsets(t *testing.T) {
	var p config.Position
	if err := p.UnmarshalText([]byte("-1920x0")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if p != (config.Position{X: -1920, Y: 0}) {
		t.Fatalf("unexpected position: %v", p)
	}
}

func TestModeUnion(t *testing.T) {
	a := config.Mode{W: 1920, H: 1080}
	b := config.Mode{W: 1280, H: 1440}
	if got := a.Union(b); got != (config.Mode{W: 1920, H: 1440}) {
		t.Fatalf("unexpected union: %v", got)
	}
}

func TestMonitorOrdering(t *testing.T) {
	ms := []config.Monitor{
		{Product: "B", Serial: "1"},
		{Product: "A", Serial: "2"},
		{Product: "A", Serial: "1"},
		{},
	}
	config.SortMonitors(ms)
	want := []config.Monitor{
		{},
		{Product: "A", Serial: "1"},
		{Product: "A", Serial: "2"},
		{Product: "B", Serial: "1"},
	}
	for i := range want {
		if ms[i] != want[i] {
			t.Fatalf("position %d: got %+v want %+v", i, ms[i], want[i])
		}
	}
}
