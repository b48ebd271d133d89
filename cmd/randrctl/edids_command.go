package main

import (
	"fmt"
	"io"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"randrd/internal/config"
	"randrd/internal/edid"
	"randrd/internal/logging"
	"randrd/internal/xrandr"
)

func newEdidsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edids",
		Short: "Print attached monitor identities as config snippets",
		Long: `Reads the EDID of every connected output and prints a [monitors.*]
TOML snippet keyed by output name, ready to paste into the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withConn(func(conn *xrandr.Conn) error {
				atom, err := conn.EDIDAtom()
				if err != nil {
					return err
				}
				return printEdids(cmd.OutOrStdout(), conn, conn.Root(), atom)
			})
		},
	}
}

func printEdids(w io.Writer, c xrandr.Client, root xproto.Window, atom xproto.Atom) error {
	res, err := c.ScreenResourcesCurrent(root)
	if err != nil {
		return fmt.Errorf("query screen resources: %w", err)
	}

	byName := map[string]config.Monitor{}
	logger := logging.NewNop()
	for _, out := range res.Outputs {
		info, err := c.OutputInfo(out, res.ConfigTimestamp)
		if err != nil {
			return fmt.Errorf("query output %d: %w", out, err)
		}
		if info.Connection != randr.ConnectionConnected {
			continue
		}
		mon, ok := edid.Identity(c, out, atom, logger)
		if !ok {
			continue
		}
		byName[string(info.Name)] = mon
	}

	if len(byName) == 0 {
		fmt.Fprintln(w, "# no identifiable monitors attached")
		return nil
	}

	data, err := toml.Marshal(map[string]map[string]config.Monitor{"monitors": byName})
	if err != nil {
		return fmt.Errorf("render snippet: %w", err)
	}
	_, err = w.Write(data)
	return err
}
