package engine

import (
	"github.com/BurntSushi/xgb/randr"

	"randrd/internal/config"
)

// geometry accumulates the virtual screen size a pass needs: the maximum
// extent of every desired placement, folded against every still-live CRTC so
// the canvas never shrinks below what is on screen mid-transaction. The
// millimeter size is the sum of each configured output's physical
// dimensions; this is an approximation, not a union of abutting panels.
type geometry struct {
	W, H              uint16
	MMWidth, MMHeight uint32
}

// foldDesired grows the canvas to contain an output placed per its config.
func (g *geometry) foldDesired(oc config.OutputConfig) {
	g.W = growTo(g.W, int(oc.Position.X)+int(oc.Mode.W))
	g.H = growTo(g.H, int(oc.Position.Y)+int(oc.Mode.H))
}

// foldLive grows the canvas to contain a CRTC's current footprint.
func (g *geometry) foldLive(ci *randr.GetCrtcInfoReply) {
	g.W = growTo(g.W, int(ci.X)+int(ci.Width))
	g.H = growTo(g.H, int(ci.Y)+int(ci.Height))
}

// addPhysical accumulates an output's reported millimeter dimensions.
func (g *geometry) addPhysical(info *randr.GetOutputInfoReply) {
	g.MMWidth += info.MmWidth
	g.MMHeight += info.MmHeight
}

func growTo(cur uint16, extent int) uint16 {
	if extent <= int(cur) {
		return cur
	}
	if extent > 0xFFFF {
		return 0xFFFF
	}
	return uint16(extent)
}
