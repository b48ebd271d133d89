package main

import (
	"fmt"
	"io"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/spf13/cobra"

	"randrd/internal/edid"
	"randrd/internal/logging"
	"randrd/internal/xrandr"
)

func newOutputsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "Show connected outputs and their current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withConn(func(conn *xrandr.Conn) error {
				atom, err := conn.EDIDAtom()
				if err != nil {
					return err
				}
				rows, err := collectOutputRows(conn, conn.Root(), atom)
				if err != nil {
					return err
				}
				return renderOutputs(cmd.OutOrStdout(), rows)
			})
		},
	}
}

type outputRow struct {
	Name     string
	Status   string
	Product  string
	Serial   string
	Crtc     string
	Geometry string
}

func collectOutputRows(c xrandr.Client, root xproto.Window, atom xproto.Atom) ([]outputRow, error) {
	res, err := c.ScreenResourcesCurrent(root)
	if err != nil {
		return nil, fmt.Errorf("query screen resources: %w", err)
	}

	logger := logging.NewNop()
	rows := make([]outputRow, 0, len(res.Outputs))
	for _, out := range res.Outputs {
		info, err := c.OutputInfo(out, res.ConfigTimestamp)
		if err != nil {
			return nil, fmt.Errorf("query output %d: %w", out, err)
		}

		row := outputRow{
			Name:     string(info.Name),
			Status:   connectionStatus(info.Connection),
			Crtc:     "-",
			Geometry: "-",
		}
		if mon, ok := edid.Identity(c, out, atom, logger); ok {
			row.Product = mon.Product
			row.Serial = mon.Serial
		}
		if info.Crtc != 0 {
			ci, err := c.CrtcInfo(info.Crtc, res.ConfigTimestamp)
			if err != nil {
				return nil, fmt.Errorf("query crtc %d: %w", info.Crtc, err)
			}
			row.Crtc = fmt.Sprintf("%d", info.Crtc)
			row.Geometry = fmt.Sprintf("%dx%d+%d+%d", ci.Width, ci.Height, ci.X, ci.Y)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func connectionStatus(conn byte) string {
	switch conn {
	case randr.ConnectionConnected:
		return "connected"
	case randr.ConnectionDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

func renderOutputs(w io.Writer, rows []outputRow) error {
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.Name, r.Status, r.Product, r.Serial, r.Crtc, r.Geometry})
	}
	_, err := fmt.Fprintln(w, renderTable(w,
		[]string{"Output", "Status", "Product", "Serial", "CRTC", "Geometry"},
		table))
	return err
}
