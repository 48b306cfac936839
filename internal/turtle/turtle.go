// Package turtle defines the turtle-graphics collaborator contract (§6):
// the evaluator drives a Turtle through this interface only, so a real
// canvas renderer can be swapped in without touching C1-C8. Headless is a
// no-op reference implementation sufficient to run the evaluator and its
// tests; it is not a renderer.
package turtle

import "math"

// Turtle is the graphics back end FORWARD/RIGHT and friends drive.
// Coordinates are float64 turtle-space units; heading is degrees clockwise
// from straight up, matching UCBLogo's convention.
type Turtle interface {
	Forward(units float64)
	Rotate(degrees float64)
	SetXY(x, y float64)
	SetHeading(degrees float64)
	Home()

	PenUp()
	PenDown()
	SetPenColor(color int)
	SetPenSize(size float64)
	IsPenSizeValid(size float64) bool

	BeginFill()
	EndFill()
	DrawArc(angle, radius float64)
	DrawLabel(text string)

	ClearCanvas()
	SetBounds(width, height float64)
	GetBounds() (width, height float64)

	Position() (x, y float64)
	Heading() float64
}

// Headless is a bounds-tracking, otherwise no-op Turtle: every mutating
// call updates position/heading/pen state so FORWARD/RIGHT/PENUP etc. are
// exercisable end to end (§6), with no actual rendering.
type Headless struct {
	x, y      float64
	heading   float64
	penDown   bool
	penColor  int
	penSize   float64
	filling   bool
	width     float64
	height    float64
}

// NewHeadless returns a Headless turtle at the origin, heading 0, pen down.
func NewHeadless() *Headless {
	return &Headless{penDown: true, penSize: 1, width: 1000, height: 1000}
}

func (t *Headless) Forward(units float64) {
	rad := t.heading * degToRad
	t.x += units * math.Sin(rad)
	t.y += units * math.Cos(rad)
}

func (t *Headless) Rotate(degrees float64) {
	t.heading = normalizeDegrees(t.heading + degrees)
}

func (t *Headless) SetXY(x, y float64)      { t.x, t.y = x, y }
func (t *Headless) SetHeading(degrees float64) { t.heading = normalizeDegrees(degrees) }
func (t *Headless) Home()                   { t.x, t.y, t.heading = 0, 0, 0 }

func (t *Headless) PenUp()                    { t.penDown = false }
func (t *Headless) PenDown()                  { t.penDown = true }
func (t *Headless) SetPenColor(color int)     { t.penColor = color }
func (t *Headless) SetPenSize(size float64)   { t.penSize = size }
func (t *Headless) IsPenSizeValid(size float64) bool { return size > 0 }

func (t *Headless) BeginFill() { t.filling = true }
func (t *Headless) EndFill()   { t.filling = false }
func (t *Headless) DrawArc(angle, radius float64) {}
func (t *Headless) DrawLabel(text string)         {}

func (t *Headless) ClearCanvas()                    {}
func (t *Headless) SetBounds(width, height float64) { t.width, t.height = width, height }
func (t *Headless) GetBounds() (float64, float64)   { return t.width, t.height }

func (t *Headless) Position() (float64, float64) { return t.x, t.y }
func (t *Headless) Heading() float64             { return t.heading }

const degToRad = math.Pi / 180

func normalizeDegrees(d float64) float64 {
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}
