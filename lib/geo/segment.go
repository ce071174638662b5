package geo

import (
	"fmt"
)

type Segment struct {
	Start *Point
	End   *Point
}

func NewSegment(from, to *Point) *Segment {
	return &Segment{from, to}
}

func (segment Segment) Intersects(otherSegment Segment) bool {
	return IntersectionPoint(segment.Start, segment.End, otherSegment.Start, otherSegment.End) != nil
}

func (s Segment) ToString() string {
	return fmt.Sprintf("%v -> %v", s.Start.ToString(), s.End.ToString())
}

func (segment Segment) Intersections(otherSegment Segment) []*Point {
	point := IntersectionPoint(segment.Start, segment.End, otherSegment.Start, otherSegment.End)
	if point == nil {
		return nil
	}
	return []*Point{point}
}

func (segment Segment) Length() float64 {
	return EuclideanDistance(segment.Start.X, segment.Start.Y, segment.End.X, segment.End.Y)
}

func (segment Segment) ToVector() Vector {
	return NewVector(segment.End.X-segment.Start.X, segment.End.Y-segment.Start.Y)
}
