package daemon

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/gofrs/flock"

	"randrd/internal/config"
	"randrd/internal/logging"
	"randrd/internal/testsupport"
)

const edidAtom = xproto.Atom(42)

// fakeServer feeds a scripted event stream into the daemon loop on top of
// the in-memory hardware model. Closing the events channel models the X
// connection going away.
type fakeServer struct {
	*testsupport.FakeClient
	events    chan xgb.Event
	selectErr error

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		FakeClient: testsupport.NewFakeClient(),
		events:     make(chan xgb.Event, 8),
		closed:     make(chan struct{}),
	}
}

func (s *fakeServer) Root() xproto.Window { return 1 }

func (s *fakeServer) SelectScreenChange() error { return s.selectErr }

func (s *fakeServer) WaitForEvent() (xgb.Event, error) {
	ev, ok := <-s.events
	if !ok {
		return nil, nil
	}
	return ev, nil
}

func (s *fakeServer) Close() { s.closeOnce.Do(func() { close(s.closed) }) }

const soloConfig = `
[monitors.a]
product = "PanelA"
serial = "A"

[layouts.solo]
monitors = ["a"]

[layouts.solo.outputs.a]
mode = "1920x1080"
position = "0x0"
primary = true
`

func testConfig(t *testing.T, lockPath string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(soloConfig))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Daemon.LockPath = lockPath
	return cfg
}

func soloScene(s *fakeServer) {
	s.AddMode(100, 1920, 1080)
	s.AddCrtc(10)
	s.AddOutput(1, "eDP-1", []randr.Crtc{10}, []randr.Mode{100})
	s.EDIDs[1] = testsupport.EDIDBlock("PanelA", "A")
}

func newDaemon(t *testing.T, srv *fakeServer, out *bytes.Buffer) *Daemon {
	t.Helper()
	cfg := testConfig(t, filepath.Join(t.TempDir(), "randrd.lock"))
	d, err := New(cfg, srv, edidAtom, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if out != nil {
		d.out = out
	}
	return d
}

func TestRunAppliesInitialLayout(t *testing.T) {
	srv := newFakeServer()
	soloScene(srv)
	close(srv.events)

	var out bytes.Buffer
	d := newDaemon(t, srv, &out)

	err := d.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection closed") {
		t.Fatalf("expected connection-closed error, got %v", err)
	}

	if got := out.String(); got != "layout: solo\n" {
		t.Fatalf("stdout = %q, want layout announcement", got)
	}
	var enabled bool
	for _, op := range srv.Ops {
		if op.Name == "enable" {
			enabled = true
		}
	}
	if !enabled {
		t.Fatalf("expected an enable request, got %v", srv.OpNames())
	}
}

func TestForcedPassAnnouncesUnchangedLayout(t *testing.T) {
	srv := newFakeServer()
	soloScene(srv)
	// Hardware already matches the layout.
	srv.Bind(1, 10, 0, 0, 100)
	close(srv.events)

	var out bytes.Buffer
	d := newDaemon(t, srv, &out)
	_ = d.Run(context.Background())

	if len(srv.Ops) != 0 {
		t.Fatalf("expected no requests for matching hardware, got %v", srv.OpNames())
	}
	if got := out.String(); got != "layout: solo\n" {
		t.Fatalf("stdout = %q, want announcement even without changes", got)
	}
}

func TestEventTriggersIdempotentPass(t *testing.T) {
	srv := newFakeServer()
	soloScene(srv)
	srv.events <- randr.ScreenChangeNotifyEvent{}
	close(srv.events)

	var out bytes.Buffer
	d := newDaemon(t, srv, &out)
	_ = d.Run(context.Background())

	// First pass configures the output, the event pass finds nothing to do
	// and stays quiet.
	if got := out.String(); got != "layout: solo\n" {
		t.Fatalf("stdout = %q, want a single announcement", got)
	}
	first := len(srv.Ops)
	if first == 0 {
		t.Fatal("expected the initial pass to issue requests")
	}
}

func TestNoMatchIsNotFatal(t *testing.T) {
	srv := newFakeServer()
	soloScene(srv)
	srv.EDIDs[1] = testsupport.EDIDBlock("Stranger", "X")
	srv.events <- randr.ScreenChangeNotifyEvent{}
	close(srv.events)

	var out bytes.Buffer
	d := newDaemon(t, srv, &out)

	err := d.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection closed") {
		t.Fatalf("expected the loop to survive the miss, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("no layout should be announced on a miss, got %q", out.String())
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "randrd.lock")

	holder := flock.New(lockPath)
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("prepare lock holder: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	srv := newFakeServer()
	cfg := testConfig(t, lockPath)
	d, err := New(cfg, srv, edidAtom, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if len(srv.Ops) != 0 {
		t.Fatalf("no requests should be issued without the lock, got %v", srv.OpNames())
	}
}

func TestRunReportsSelectInputFailure(t *testing.T) {
	srv := newFakeServer()
	srv.selectErr = errors.New("bad window")

	d := newDaemon(t, srv, nil)

	var sel *SelectInputError
	if err := d.Run(context.Background()); !errors.As(err, &sel) {
		t.Fatalf("expected SelectInputError, got %v", err)
	}
}

func TestCancelStopsRun(t *testing.T) {
	srv := newFakeServer()
	soloScene(srv)

	d := newDaemon(t, srv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	// The daemon closes the connection on cancellation; the fake models
	// that by closing the event stream once Close was requested.
	<-srv.closed
	close(srv.events)

	if err := <-done; err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
