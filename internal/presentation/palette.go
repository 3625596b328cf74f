// Package presentation turns graphs and query results into the data a
// map renderer draws: colors, labels, legs, polylines and GeoJSON.
package presentation

import (
	"fmt"
	"sort"
	"strings"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/utils"
)

// DefaultColor is used for lines missing from a palette and for transfers.
const DefaultColor = "#808080"

// Palette maps line IDs to hex colors.
type Palette struct {
	colors   map[string]string
	fallback string
}

// NewPalette copies colors into a new palette.
func NewPalette(colors map[string]string) *Palette {
	p := &Palette{colors: make(map[string]string, len(colors)), fallback: DefaultColor}
	for line, color := range colors {
		p.colors[line] = strings.ToLower(color)
	}
	return p
}

// DefaultPalette carries the RATP line colors.
func DefaultPalette() *Palette {
	return NewPalette(map[string]string{
		"METRO_1":  "#f2c931",
		"METRO_2":  "#216eb4",
		"METRO_3":  "#9a9940",
		"METRO_3b": "#89c7d6",
		"METRO_4":  "#bb4d98",
		"METRO_5":  "#de8b53",
		"METRO_6":  "#79bb92",
		"METRO_7":  "#df9ab1",
		"METRO_7b": "#79bb92",
		"METRO_8":  "#c5a3ca",
		"METRO_9":  "#cdc83f",
		"METRO_10": "#dfb039",
		"METRO_11": "#8e6538",
		"METRO_12": "#328e5b",
		"METRO_13": "#89c7d6",
		"METRO_14": "#67328e",
		"RER_A":    "#ff1400",
		"RER_B":    "#3c91dc",
	})
}

// With returns a copy of p where overrides replace existing colors.
func (p *Palette) With(overrides map[string]string) *Palette {
	merged := make(map[string]string, len(p.colors)+len(overrides))
	for line, color := range p.colors {
		merged[line] = color
	}
	for line, color := range overrides {
		merged[line] = color
	}
	return NewPalette(merged)
}

// Color returns the color of line, or DefaultColor.
func (p *Palette) Color(line string) string {
	if p == nil {
		return DefaultColor
	}
	if c, ok := p.colors[line]; ok {
		return c
	}
	return p.fallback
}

// EdgeColor colors rides by line and transfers with DefaultColor.
func (p *Palette) EdgeColor(e graph.Edge) string {
	if e.Type == graph.EdgeTransfer {
		return DefaultColor
	}
	return p.Color(e.Line)
}

// Lines returns the lines with a color, sorted.
func (p *Palette) Lines() []string {
	lines := make([]string, 0, len(p.colors))
	for line := range p.colors {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// Label renders a station as its name followed by its line number, for
// example "Concorde (1)".
func Label(s graph.Station) string {
	return fmt.Sprintf("%s (%s)", s.Name, utils.ExtractLineNumber(s.Line))
}

// edgeWidth draws RER lines thicker than metro lines.
func edgeWidth(line string) float64 {
	if utils.ExtractLineMode(line) == "RER" {
		return 0.7
	}
	return 0.5
}
