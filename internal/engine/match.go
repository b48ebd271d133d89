package engine

import (
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"

	"randrd/internal/config"
	"randrd/internal/edid"
	"randrd/internal/xrandr"
)

// Match is a resolved layout: the configured name and framebuffer size, plus
// the desired state re-joined to the concrete connector each monitor was
// found on. Connectors whose monitor is absent from the layout's setup are
// excluded and remain untouched.
type Match struct {
	Name   string
	FBSize config.Mode
	Setup  map[randr.Output]config.OutputConfig
}

// MatchLayout resolves every connector's identity, canonicalizes the
// attached monitor set, and looks it up in the layout table. A miss returns
// *NoMatchError carrying the observed set.
func MatchLayout(c xrandr.Client, outputs []randr.Output, atom xproto.Atom,
	table config.Table, logger *zap.Logger) (*Match, error) {

	byOutput := edid.Resolve(c, outputs, atom, logger)

	monitors := make([]config.Monitor, 0, len(byOutput))
	for _, mon := range byOutput {
		monitors = append(monitors, mon)
	}

	layout, ok := table.Lookup(monitors)
	if !ok {
		config.SortMonitors(monitors)
		return nil, &NoMatchError{Monitors: monitors}
	}

	match := &Match{
		Name:   layout.Name,
		FBSize: layout.FBSize,
		Setup:  make(map[randr.Output]config.OutputConfig, len(layout.Setup)),
	}
	for out, mon := range byOutput {
		if oc, ok := layout.Setup[mon]; ok {
			match.Setup[out] = oc
		}
	}
	return match, nil
}
