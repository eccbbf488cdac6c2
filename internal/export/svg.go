package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gasmix/internal/gas"
)

const (
	ColorA = "#ff00ff"
	ColorB = "#00ffff"
)

// SnapshotToSVG draws particles projected onto the XY plane inside the box
// outline. The partition is drawn dashed when showPartition is set.
func SnapshotToSVG(ps []gas.Particle, halfSize float64, size int, showPartition bool) string {
	if !(halfSize > 0) || size <= 0 {
		return ""
	}

	pad := float64(size) * 0.05
	inner := float64(size) - 2*pad
	scale := inner / (2 * halfSize)
	toX := func(x float64) float64 { return pad + (x+halfSize)*scale }
	toY := func(y float64) float64 { return pad + (halfSize-y)*scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#666666" stroke-width="1"/>
`, size, size, size, size, pad, pad, inner, inner))

	if showPartition {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ffff00" stroke-dasharray="4 4"/>
`, toX(0), pad, toX(0), pad+inner))
	}

	for _, pop := range gas.Populations {
		color := ColorA
		if pop == gas.PopulationB {
			color = ColorB
		}
		sb.WriteString(fmt.Sprintf(`<g fill="%s" class="gas-%s">
`, color, pop))
		for _, p := range ps {
			if p.Population != pop {
				continue
			}
			r := p.Radius * scale
			if r < 1 {
				r = 1
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, toX(p.Position.X()), toY(p.Position.Y()), r))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots a sampled metric over time as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX = min(minX, times[i])
		maxX = max(maxX, times[i])
		minY = min(minY, values[i])
		maxY = max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

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
