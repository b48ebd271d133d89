package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"randrd/internal/config"
	"randrd/internal/daemon"
	"randrd/internal/logging"
	"randrd/internal/xrandr"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var displayFlag string

	cmd := &cobra.Command{
		Use:           "randrd",
		Short:         "Monitor layout daemon for X11",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configFlag, displayFlag)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&displayFlag, "display", "", "X display to manage (defaults to $DISPLAY)")

	return cmd
}

func run(ctx context.Context, configPath, display string) error {
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return &exitError{exitConfig, err}
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return &exitError{exitConfig, err}
	}
	defer logger.Sync() //nolint:errcheck

	if display == "" {
		display = cfg.Daemon.Display
	}

	conn, err := xrandr.Connect(display)
	if err != nil {
		return &exitError{exitConnect, err}
	}
	defer conn.Close()

	atom, err := conn.EDIDAtom()
	if err != nil {
		return &exitError{exitAtom, err}
	}

	d, err := daemon.New(cfg, conn, atom, logger)
	if err != nil {
		return &exitError{exitConfig, err}
	}

	logger.Info("configuration loaded",
		zap.String("path", path),
		zap.Int("layouts", len(cfg.Layouts)))

	return d.Run(ctx)
}
