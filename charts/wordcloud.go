package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"unicode/utf8"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"reviews-dashboard/models"
)

// Word-cloud canvas and font bounds, in points.
const (
	CloudWidth   = 1200
	CloudHeight  = 600
	maxFontSize  = 96.0
	minFontSize  = 10.0
	glyphAspect  = 0.6
	spiralStep   = 0.2
	spiralGrowth = 3.0
)

// PlacedWord is a word positioned on the cloud canvas; X and Y are its centre.
type PlacedWord struct {
	Word  string
	X, Y  float64
	Size  float64
	Color string
}

type box struct{ x0, y0, x1, y1 float64 }

func (a box) overlaps(b box) bool {
	return a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
}

// LayoutCloud places words on a width x height canvas along an Archimedean
// spiral from the centre, largest first. Words that do not fit are left out.
// Font sizes scale with the square root of each count.
func LayoutCloud(words []models.WordCount, width, height float64, palette []string) []PlacedWord {
	if len(words) == 0 {
		return nil
	}
	if len(palette) == 0 {
		palette = Viridis
	}

	maxC, minC := float64(words[0].Count), float64(words[0].Count)
	for _, w := range words {
		maxC = math.Max(maxC, float64(w.Count))
		minC = math.Min(minC, float64(w.Count))
	}

	cx, cy := width/2, height/2
	var placed []PlacedWord
	var boxes []box

	for i, w := range words {
		size := maxFontSize
		if maxC > minC {
			frac := (math.Sqrt(float64(w.Count)) - math.Sqrt(minC)) / (math.Sqrt(maxC) - math.Sqrt(minC))
			size = minFontSize + frac*(maxFontSize-minFontSize)
		}
		bw := glyphAspect * size * float64(utf8.RuneCountInString(w.Word))
		bh := size

		maxRadius := math.Hypot(width, height) / 2
		for theta := 0.0; spiralGrowth*theta <= maxRadius; theta += spiralStep {
			r := spiralGrowth * theta
			x := cx + r*math.Cos(theta)
			y := cy + r*math.Sin(theta)*height/width
			b := box{x - bw/2, y - bh/2, x + bw/2, y + bh/2}
			if b.x0 < 0 || b.y0 < 0 || b.x1 > width || b.y1 > height {
				continue
			}
			if collides(b, boxes) {
				continue
			}
			boxes = append(boxes, b)
			placed = append(placed, PlacedWord{
				Word:  w.Word,
				X:     x,
				Y:     y,
				Size:  size,
				Color: palette[i%len(palette)],
			})
			break
		}
	}
	return placed
}

func collides(b box, boxes []box) bool {
	for _, o := range boxes {
		if b.overlaps(o) {
			return true
		}
	}
	return false
}

// WordCloudPNG renders the words as a PNG image. It returns nil when there is
// nothing to draw.
func WordCloudPNG(words []models.WordCount) ([]byte, error) {
	placed := LayoutCloud(words, CloudWidth, CloudHeight, Viridis)
	if len(placed) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = color.White

	xys := make(plotter.XYs, len(placed))
	texts := make([]string, len(placed))
	for i, w := range placed {
		xys[i] = plotter.XY{X: w.X, Y: w.Y}
		texts[i] = w.Word
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("charts: word cloud labels: %w", err)
	}
	for i, w := range placed {
		labels.TextStyle[i].Font.Size = vg.Points(w.Size)
		labels.TextStyle[i].Color = parseHex(w.Color)
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)
	p.X.Min, p.X.Max = 0, CloudWidth
	p.Y.Min, p.Y.Max = 0, CloudHeight

	wt, err := p.WriterTo(vg.Length(CloudWidth), vg.Length(CloudHeight), "png")
	if err != nil {
		return nil, fmt.Errorf("charts: word cloud canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("charts: encode word cloud: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI embeds a PNG in an img src attribute.
func DataURI(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// parseHex converts "#rrggbb" to a colour, black on malformed input.
func parseHex(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.Black
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
