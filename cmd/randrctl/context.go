package main

import (
	"strings"
	"sync"

	"randrd/internal/config"
	"randrd/internal/xrandr"
)

type commandContext struct {
	configFlag  *string
	displayFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, displayFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		displayFlag: displayFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, string, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configPath, c.configErr = config.Load(path)
	})
	return c.config, c.configPath, c.configErr
}

// display prefers the flag, then the config file, then $DISPLAY. Commands
// that only inspect hardware must work without a config file, so a load
// failure here is not an error.
func (c *commandContext) display() string {
	if c.displayFlag != nil && strings.TrimSpace(*c.displayFlag) != "" {
		return strings.TrimSpace(*c.displayFlag)
	}
	if cfg, _, err := c.ensureConfig(); err == nil {
		return cfg.Daemon.Display
	}
	return ""
}

func (c *commandContext) withConn(fn func(*xrandr.Conn) error) error {
	conn, err := xrandr.Connect(c.display())
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}
