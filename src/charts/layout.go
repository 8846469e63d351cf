package charts

import (
	"math"

	"github.com/MoacirMFB/LCC-Stats/src/config"
)

// Donut geometry, in pie-radius units with y pointing up.
const (
	startAngle    = 90.0 // degrees; wedges run counter-clockwise from 12 o'clock
	holeRadius    = 0.60
	pctDistance   = 0.80
	labelXOffset  = 1.35
	labelYStretch = 1.40
)

// Point is a position in pie-radius units.
type Point struct{ X, Y float64 }

// Wedge is the placement of one category on the donut.
type Wedge struct {
	Name           string
	Percent        float64 // label value, re-normalised over the drawn total
	Theta1, Theta2 float64 // degrees, counter-clockwise from +x
	Mid            float64
	Rim            Point // where the leader line touches the wedge
	PctAt          Point // centre of the in-ring percentage text
	LabelAt        Point // anchor of the label box
	Elbow          Point // where the horizontal leader segment turns toward Rim
	AlignRight     bool  // label box extends left of LabelAt
	Pinned         bool  // LabelAt came from an override
}

// DonutLayout is the full annotation plan for a donut chart.
type DonutLayout struct {
	Hole   float64
	Wedges []Wedge
}

// LayoutDonut places wedges, percentage text and leader-lined labels. Categories with an
// override use its position and percentage scale; all others get the computed placement:
// (1.35·sign(x), 1.4·y) from the wedge mid-angle.
func LayoutDonut(names []string, percents []float64, display []float64, overrides map[string]config.LabelOverride) DonutLayout {
	var total float64
	for _, p := range percents {
		total += p
	}
	lay := DonutLayout{Hole: holeRadius, Wedges: make([]Wedge, len(percents))}
	theta := startAngle
	for i, p := range percents {
		span := 0.0
		if total > 0 {
			span = 360 * p / total
		}
		w := Wedge{Name: names[i], Percent: display[i], Theta1: theta, Theta2: theta + span}
		theta = w.Theta2
		w.Mid = (w.Theta1 + w.Theta2) / 2
		rad := w.Mid * math.Pi / 180
		x, y := math.Cos(rad), math.Sin(rad)
		w.Rim = Point{x, y}

		scale := 1.0
		o, has := overrides[w.Name]
		if has && o.PctScale != nil {
			scale = *o.PctScale
		}
		w.PctAt = Point{pctDistance * x * scale, pctDistance * y * scale}

		sign := 1.0
		if x < 0 {
			sign = -1
		}
		w.AlignRight = sign < 0
		if has && o.HasPosition() {
			w.LabelAt = Point{*o.X, *o.Y}
			w.Pinned = true
		} else {
			w.LabelAt = Point{labelXOffset * sign, labelYStretch * y}
		}
		w.Elbow = elbow(w.Rim, w.LabelAt, w.Mid)
		lay.Wedges[i] = w
	}
	return lay
}

// elbow joins a horizontal segment through label with the line through rim at angle deg.
// When that line is itself horizontal the leader is straight and the elbow is rim.
func elbow(rim, label Point, deg float64) Point {
	rad := deg * math.Pi / 180
	s := math.Sin(rad)
	if math.Abs(s) < 1e-9 {
		return rim
	}
	t := (label.Y - rim.Y) / s
	return Point{X: rim.X + t*math.Cos(rad), Y: label.Y}
}
