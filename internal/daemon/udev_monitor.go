package daemon

import (
	"context"
	"sync"

	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/zap"
)

// udevMonitor listens for kernel drm uevents as a fallback trigger. Some
// drivers change connector state without the X server noticing until the
// next poll, so a hotplug uevent is worth a reconciliation pass of its own.
type udevMonitor struct {
	logger  *zap.Logger
	trigger func()

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

func newUdevMonitor(logger *zap.Logger, trigger func()) *udevMonitor {
	return &udevMonitor{
		logger:  logger.Named("udev"),
		trigger: trigger,
	}
}

// Start begins listening for drm uevents. A connection failure is not
// fatal: the RandR event loop still covers the common case, so the monitor
// logs a warning and stays inactive.
func (m *udevMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("udev socket unavailable, hotplug fallback disabled",
			zap.Error(err))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("udev fallback monitor started")
	return nil
}

// Stop shuts down the monitor.
func (m *udevMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("udev fallback monitor stopped")
}

// Running reports whether the monitor is active.
func (m *udevMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *udevMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := m.buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("udev monitor error", zap.Error(err))
		}
	}
}

// buildMatcher matches connector hotplug events: SUBSYSTEM=drm,
// ACTION=change|add.
func (m *udevMonitor) buildMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "drm",
		},
	})
	return rules
}

func (m *udevMonitor) handleEvent(uevent netlink.UEvent) {
	m.logger.Debug("drm uevent received",
		zap.String("action", string(uevent.Action)),
		zap.String("kobj", uevent.KObj))

	if m.trigger != nil {
		m.trigger()
	}
}
