package geo

import (
	"fmt"
	"math"
)

type Box struct {
	TopLeft *Point
	Width   float64
	Height  float64
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

func (b *Box) Copy() *Box {
	if b == nil {
		return nil
	}
	return NewBox(b.TopLeft.Copy(), b.Width, b.Height)
}

func (b *Box) Center() *Point {
	return NewPoint(b.TopLeft.X+b.Width/2, b.TopLeft.Y+b.Height/2)
}

// Corners returns the box corners clockwise from TopLeft
func (b *Box) Corners() []*Point {
	tl := b.TopLeft
	tr := NewPoint(tl.X+b.Width, tl.Y)
	br := NewPoint(tr.X, tr.Y+b.Height)
	bl := NewPoint(tl.X, br.Y)
	return []*Point{tl, tr, br, bl}
}

func (b *Box) Contains(p *Point) bool {
	return b.TopLeft.X <= p.X && p.X <= b.TopLeft.X+b.Width &&
		b.TopLeft.Y <= p.Y && p.Y <= b.TopLeft.Y+b.Height
}

func (b *Box) Overlaps(other *Box) bool {
	if b.TopLeft.X+b.Width <= other.TopLeft.X ||
		other.TopLeft.X+other.Width <= b.TopLeft.X {
		return false
	}
	if b.TopLeft.Y+b.Height <= other.TopLeft.Y ||
		other.TopLeft.Y+other.Height <= b.TopLeft.Y {
		return false
	}
	return true
}

// Expanded returns a copy of the box grown by amount on every side
func (b *Box) Expanded(amount float64) *Box {
	return NewBox(
		NewPoint(b.TopLeft.X-amount, b.TopLeft.Y-amount),
		b.Width+2*amount,
		b.Height+2*amount,
	)
}

func (b *Box) Intersections(s Segment) []*Point {
	pts := []*Point{}

	corners := b.Corners()
	for i := range corners {
		side := Segment{corners[i], corners[(i+1)%len(corners)]}
		if p := IntersectionPoint(s.Start, s.End, side.Start, side.End); p != nil {
			pts = append(pts, p)
		}
	}
	return pts
}

// Intersects reports whether segment s crosses the box.
// Axis aligned segments are checked with interval overlaps. Diagonal segments
// check that the box corners are not all strictly on the same side of the
// segment's line, in addition to the interval overlaps.
func (b *Box) Intersects(s Segment) bool {
	left := b.TopLeft.X
	right := b.TopLeft.X + b.Width
	top := b.TopLeft.Y
	bottom := b.TopLeft.Y + b.Height

	minX := math.Min(s.Start.X, s.End.X)
	maxX := math.Max(s.Start.X, s.End.X)
	minY := math.Min(s.Start.Y, s.End.Y)
	maxY := math.Max(s.Start.Y, s.End.Y)

	if maxX < left || right < minX || maxY < top || bottom < minY {
		return false
	}
	if s.Start.X == s.End.X || s.Start.Y == s.End.Y {
		// axis aligned and intervals overlap
		return true
	}

	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	var sign int
	for _, corner := range b.Corners() {
		cross := dx*(corner.Y-s.Start.Y) - dy*(corner.X-s.Start.X)
		cornerSign := Sign(cross)
		if cornerSign == 0 {
			return true
		}
		if sign == 0 {
			sign = cornerSign
		} else if sign != cornerSign {
			return true
		}
	}
	// all corners on the same side of the segment's line
	return false
}

func (b *Box) ToString() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("{TopLeft: %s, Width: %.0f, Height: %.0f}", b.TopLeft.ToString(), b.Width, b.Height)
}
