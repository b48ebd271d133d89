package engine

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"

	"randrd/internal/config"
	"randrd/internal/xrandr"
)

// Engine runs reconciliation passes: identify the attached monitors, match
// them against the layout table, and drive the hardware to the matched
// layout. It carries no state between passes; every pass starts from a fresh
// snapshot of the server's resources.
type Engine struct {
	client xrandr.Client
	root   xproto.Window
	atom   xproto.Atom
	table  config.Table
	logger *zap.Logger
}

// New constructs an engine bound to a client, root window, EDID atom, and
// compiled layout table.
func New(client xrandr.Client, root xproto.Window, atom xproto.Atom,
	table config.Table, logger *zap.Logger) *Engine {
	return &Engine{
		client: client,
		root:   root,
		atom:   atom,
		table:  table,
		logger: logger,
	}
}

// Reconcile runs one full detect-match-plan-apply pass. It returns the
// matched layout's name and whether any hardware request was issued. A
// *NoMatchError means no layout covers the attached monitor set; the caller
// reports it and waits for the next change.
func (e *Engine) Reconcile() (string, bool, error) {
	res, err := e.client.ScreenResourcesCurrent(e.root)
	if err != nil {
		return "", false, fmt.Errorf("get screen resources: %w", err)
	}

	match, err := MatchLayout(e.client, res.Outputs, e.atom, e.table, e.logger)
	if err != nil {
		return "", false, err
	}

	plan, err := BuildPlan(e.client, res, match, e.root)
	if err != nil {
		return match.Name, false, err
	}

	changed, err := Apply(e.client, e.root, plan)
	if err != nil {
		return match.Name, false, err
	}
	return match.Name, changed, nil
}
