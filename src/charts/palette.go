package charts

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MoacirMFB/LCC-Stats/src/config"
)

// parseHex reads a config colour into the chart colour type.
func parseHex(s string) (drawing.Color, error) {
	c, err := config.ParseHexColor(s)
	if err != nil {
		return drawing.Color{}, err
	}
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

func parsePalette(hex []string) ([]drawing.Color, error) {
	out := make([]drawing.Color, len(hex))
	for i, h := range hex {
		c, err := parseHex(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// CyclePalette repeats palette until it covers n entries.
func CyclePalette(palette []drawing.Color, n int) []drawing.Color {
	if len(palette) == 0 || n <= 0 {
		return nil
	}
	out := make([]drawing.Color, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}
