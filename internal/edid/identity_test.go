package edid_test

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/randr"

	"randrd/internal/config"
	"randrd/internal/edid"
	"randrd/internal/logging"
	"randrd/internal/testsupport"
)

const atom = 42

func TestIdentityParsesDescriptors(t *testing.T) {
	f := testsupport.NewFakeClient()
	f.EDIDs[randr.Output(1)] = testsupport.EDIDBlock("PanelA", "SER123")

	mon, ok := edid.Identity(f, 1, atom, logging.NewNop())
	if !ok {
		t.Fatal("expected identity")
	}
	want := config.Monitor{Product: "PanelA", Serial: "SER123"}
	if mon != want {
		t.Fatalf("got %+v want %+v", mon, want)
	}
}

func TestIdentityMissingPropertyMeansNoMonitor(t *testing.T) {
	f := testsupport.NewFakeClient()

	if _, ok := edid.Identity(f, 1, atom, logging.NewNop()); ok {
		t.Fatal("expected no identity for empty property")
	}
}

func TestIdentityShortBlobMeansNoMonitor(t *testing.T) {
	f := testsupport.NewFakeClient()
	f.EDIDs[randr.Output(1)] = make([]byte, 64)

	if _, ok := edid.Identity(f, 1, atom, logging.NewNop()); ok {
		t.Fatal("expected no identity for truncated blob")
	}
}

func TestIdentityGarbageBlobMeansNoMonitor(t *testing.T) {
	f := testsupport.NewFakeClient()
	garbage := make([]byte, 128)
	for i := range garbage {
		garbage[i] = 0xAB
	}
	f.EDIDs[randr.Output(1)] = garbage

	if _, ok := edid.Identity(f, 1, atom, logging.NewNop()); ok {
		t.Fatal("expected no identity for unparseable blob")
	}
}

func TestIdentityTransportErrorIsTolerated(t *testing.T) {
	f := testsupport.NewFakeClient()
	f.EDIDErrs[randr.Output(1)] = errors.New("connection lost")

	if _, ok := edid.Identity(f, 1, atom, logging.NewNop()); ok {
		t.Fatal("expected no identity on transport error")
	}
}

func TestResolveDropsUnidentifiedConnectors(t *testing.T) {
	f := testsupport.NewFakeClient()
	f.EDIDs[randr.Output(1)] = testsupport.EDIDBlock("PanelA", "A")
	f.EDIDErrs[randr.Output(2)] = errors.New("flaky cable")

	got := edid.Resolve(f, []randr.Output{1, 2, 3}, atom, logging.NewNop())
	if len(got) != 1 {
		t.Fatalf("expected 1 resolved monitor, got %d", len(got))
	}
	if got[1] != (config.Monitor{Product: "PanelA", Serial: "A"}) {
		t.Fatalf("unexpected monitor: %+v", got[1])
	}
}
