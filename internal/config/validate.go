package config

import (
	"fmt"
	"strings"
)

// compile resolves monitor names, enforces the setup-subset invariant, and
// precomputes each layout's framebuffer size.
func compile(monitors map[string]Monitor, layouts map[string]fileMonitorLayout) (Table, error) {
	table := make(Table, len(layouts))
	keyOwner := make(map[string]string, len(layouts))

	for name, in := range layouts {
		if len(in.Monitors) == 0 {
			return nil, fmt.Errorf("layouts.%s: monitors list is empty", name)
		}

		set := make([]Monitor, 0, len(in.Monitors))
		named := make(map[string]Monitor, len(in.Monitors))
		for _, monName := range in.Monitors {
			mon, ok := monitors[monName]
			if !ok {
				return nil, fmt.Errorf("layouts.%s: monitor %q not declared under [monitors]", name, monName)
			}
			set = append(set, mon)
			named[monName] = mon
		}

		layout := &Layout{
			Name:  name,
			Setup: make(map[Monitor]OutputConfig, len(in.Outputs)),
		}
		for monName, oc := range in.Outputs {
			mon, ok := named[monName]
			if !ok {
				if _, declared := monitors[monName]; declared {
					return nil, fmt.Errorf("layouts.%s: output %q is configured but not in the layout's monitors list", name, monName)
				}
				return nil, fmt.Errorf("layouts.%s: output %q not declared under [monitors]", name, monName)
			}
			if oc.Mode.W == 0 || oc.Mode.H == 0 {
				return nil, fmt.Errorf("layouts.%s.outputs.%s: mode must be set", name, monName)
			}
			layout.FBSize = layout.FBSize.Union(extent(oc))
			layout.Setup[mon] = oc
		}

		key := Key(set)
		if other, dup := keyOwner[key]; dup {
			return nil, fmt.Errorf("layouts %s and %s are keyed by the same monitor set", other, name)
		}
		keyOwner[key] = name
		table[key] = layout
	}
	return table, nil
}

// extent is the bottom-right corner an output reaches in the virtual screen.
// Negative positions clamp to zero, matching how the framebuffer is sized.
func extent(oc OutputConfig) Mode {
	var e Mode
	if x := int(oc.Position.X) + int(oc.Mode.W); x > 0 {
		e.W = uint16(x)
	}
	if y := int(oc.Position.Y) + int(oc.Mode.H); y > 0 {
		e.H = uint16(y)
	}
	return e
}

// Validate ensures the non-layout parts of the configuration are usable.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if strings.TrimSpace(c.Daemon.LockPath) == "" {
		return fmt.Errorf("daemon.lock_path must be set")
	}
	return nil
}
