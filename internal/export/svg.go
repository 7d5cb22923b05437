// Package export renders simulation output to SVG: scene snapshots
// from above and line charts of saved tick series.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/voxelphys/internal/phys"
	"github.com/san-kum/voxelphys/internal/store"
)

// SnapshotSVG draws a top-down view of the store: one circle per body
// on the XZ plane, radius from its half extents, color by state.
// extent is the world half-width shown; bodies outside it are skipped.
func SnapshotSVG(st *store.Store, extent float32, size int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	pos := st.Positions()
	half := st.HalfExtentsAll()
	flags := st.FlagsAll()
	invMass := st.InvMasses()
	scale := float32(size) / (2 * extent)

	n := st.Len()
	for i := 0; i < n; i++ {
		x := (pos[i][0] + extent) * scale
		y := (pos[i][2] + extent) * scale
		if x < 0 || x >= float32(size) || y < 0 || y >= float32(size) {
			continue
		}

		color := "#e0e0e0"
		switch {
		case invMass[i] == 0:
			color = "#555555"
		case flags[i].Has(phys.FlagInWater):
			color = "#3399ff"
		case flags[i].Has(phys.FlagGrounded):
			color = "#66cc66"
		}

		r := half[i][0] * scale
		if r < 1 {
			r = 1
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG draws one series as a polyline with auto-scaled bounds.
func SeriesSVG(series []float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	minV, maxV := series[0], series[0]
	for _, v := range series {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	rangeV := maxV - minV
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range series {
		x := float64(i) / float64(len(series)-1) * float64(width)
		y := float64(height) - (v-minV)/rangeV*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
