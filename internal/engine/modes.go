package engine

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"randrd/internal/config"
	"randrd/internal/xrandr"
)

// modeIDs is the set of server mode identifiers sharing one resolution;
// they differ only in refresh rate and any of them is acceptable.
type modeIDs map[randr.Mode]struct{}

// modeMap groups every mode known to the screen by resolution. The returned
// timestamp is the configuration generation the map was read at; later
// requests are ordered against it.
func modeMap(c xrandr.Client, root xproto.Window) (map[config.Mode]modeIDs, xproto.Timestamp, error) {
	resources, err := c.ScreenResources(root)
	if err != nil {
		return nil, 0, fmt.Errorf("get screen resources: %w", err)
	}

	modes := make(map[config.Mode]modeIDs, len(resources.Modes))
	for _, mi := range resources.Modes {
		key := config.Mode{W: mi.Width, H: mi.Height}
		ids, ok := modes[key]
		if !ok {
			ids = modeIDs{}
			modes[key] = ids
		}
		ids[randr.Mode(mi.Id)] = struct{}{}
	}
	return modes, resources.Timestamp, nil
}
