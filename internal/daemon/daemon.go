// Package daemon runs the long-lived reconciliation loop: it holds the
// single-instance lock, subscribes to RandR change notifications, and
// re-runs the engine on every event until the context is cancelled or the
// X connection drops.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"randrd/internal/config"
	"randrd/internal/engine"
	"randrd/internal/xrandr"
)

// ErrAlreadyRunning reports that another daemon instance holds the lock.
var ErrAlreadyRunning = errors.New("another randrd instance is already running")

// SelectInputError wraps a failure to subscribe to RandR notifications.
// Without the subscription the daemon would never see monitor changes, so
// this is fatal at startup.
type SelectInputError struct {
	Err error
}

func (e *SelectInputError) Error() string {
	return fmt.Sprintf("subscribe to RandR events: %v", e.Err)
}

func (e *SelectInputError) Unwrap() error { return e.Err }

// Server is the X connection surface the daemon needs beyond the plain
// protocol client: event delivery and lifetime control. *xrandr.Conn
// implements it.
type Server interface {
	xrandr.Client
	Root() xproto.Window
	SelectScreenChange() error
	WaitForEvent() (xgb.Event, error)
	Close()
}

// Daemon owns one X connection and serializes reconciliation passes over
// it. Events and the udev fallback both funnel into reconcile, which is
// mutex-guarded so passes never interleave.
type Daemon struct {
	conn     Server
	engine   *engine.Engine
	logger   *zap.Logger
	lockPath string
	lock     *flock.Flock
	udev     *udevMonitor
	out      io.Writer

	mu sync.Mutex
}

// New builds a daemon from a validated config and a live connection. The
// EDID atom must already be interned; atom failures are a startup concern
// of the caller.
func New(cfg *config.Config, conn Server, atom xproto.Atom, logger *zap.Logger) (*Daemon, error) {
	if cfg == nil || conn == nil || logger == nil {
		return nil, errors.New("daemon requires config, connection, and logger")
	}

	lockPath, err := config.ExpandPath(cfg.Daemon.LockPath)
	if err != nil {
		return nil, fmt.Errorf("resolve lock path: %w", err)
	}
	d := &Daemon{
		conn:     conn,
		engine:   engine.New(conn, conn.Root(), atom, cfg.Layouts, logger),
		logger:   logger,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		out:      os.Stdout,
	}
	if cfg.Daemon.UdevFallback {
		d.udev = newUdevMonitor(logger, func() { d.reconcile(false) })
	}
	return d, nil
}

// Run executes the daemon until ctx is cancelled or the X connection
// closes. The first pass is forced so a freshly started daemon always
// announces the active layout, even when the hardware already matches it.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.acquireLock(); err != nil {
		return err
	}
	defer d.releaseLock()

	if err := d.conn.SelectScreenChange(); err != nil {
		return &SelectInputError{Err: err}
	}

	// Closing the connection is the only way to unblock WaitForEvent.
	go func() {
		<-ctx.Done()
		d.conn.Close()
	}()

	if d.udev != nil {
		if err := d.udev.Start(ctx); err == nil {
			defer d.udev.Stop()
		}
	}

	d.logger.Info("daemon started", zap.String("lock", d.lockPath))
	d.reconcile(true)

	for {
		ev, err := d.conn.WaitForEvent()
		if ev == nil && err == nil {
			if ctx.Err() != nil {
				d.logger.Info("daemon stopped")
				return nil
			}
			return errors.New("X connection closed")
		}
		if err != nil {
			d.logger.Warn("event stream error", zap.Error(err))
			continue
		}
		switch ev.(type) {
		case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
			d.reconcile(false)
		}
	}
}

func (d *Daemon) acquireLock() error {
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", d.lockPath, err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	return nil
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock failed", zap.Error(err))
	}
}

// reconcile runs one engine pass. A layout miss is routine (an unknown
// monitor combination was plugged in) and only warns; protocol failures
// are logged and the daemon keeps waiting for the next event.
func (d *Daemon) reconcile(force bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	logger := d.logger.With(zap.String("pass", uuid.NewString()))

	name, changed, err := d.engine.Reconcile()
	if err != nil {
		var miss *engine.NoMatchError
		if errors.As(err, &miss) {
			logger.Warn("no layout for attached monitors", zap.Error(err))
		} else {
			logger.Error("reconciliation failed", zap.Error(err))
		}
		return
	}

	if changed || force {
		fmt.Fprintf(d.out, "layout: %s\n", name)
	}
	logger.Info("layout reconciled",
		zap.String("layout", name),
		zap.Bool("changed", changed))
}
