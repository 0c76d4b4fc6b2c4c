// Package linerender reads 3-D line segments and draws the visible ones onto a 2-D surface.
package linerender

import (
	"bufio"
	"io"

	"github.com/spf13/cast"
)

// fieldsPerSegment is the count of numbers in one record: x, y and z of each endpoint
const fieldsPerSegment = 6

// Point3 is a point in three dimensions
type Point3 struct {
	X, Y, Z float64
}

// Segment is a line between two points
type Segment struct {
	P1, P2 Point3

	// Hidden segments are skipped by DrawVisible
	Hidden bool
}

// Surface is anything that can draw a line between two integer points
type Surface interface {
	DrawLine(x1, y1, x2, y2 int) error
}

// SurfaceFunc is a function type that implements Surface
type SurfaceFunc func(x1, y1, x2, y2 int) error

func (sf SurfaceFunc) DrawLine(x1, y1, x2, y2 int) error {
	return sf(x1, y1, x2, y2)
}

// ReadSegments reads whitespace-separated numbers from r, six per segment, in the order
// x1 y1 z1 x2 y2 z2.  Input ends at EOF or at the first token that is not a number.  A
// partial record at the end of input is dropped.  Every segment read is visible.
//
// Only errors from r itself are returned.
func ReadSegments(r io.Reader) ([]Segment, error) {
	var (
		scanner  = bufio.NewScanner(r)
		segments []Segment
		fields   [fieldsPerSegment]float64
		n        int
	)

	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := cast.ToFloat64E(scanner.Text())
		if err != nil {
			break
		}

		fields[n] = v
		n++
		if n == fieldsPerSegment {
			segments = append(segments, Segment{
				P1: Point3{X: fields[0], Y: fields[1], Z: fields[2]},
				P2: Point3{X: fields[3], Y: fields[4], Z: fields[5]},
			})

			n = 0
		}
	}

	return segments, scanner.Err()
}

// DrawVisible draws the x/y projection of each visible segment, truncating coordinates toward
// zero.  It returns the number of segments drawn, stopping at the first error from the surface.
func DrawVisible(s Surface, segments []Segment) (int, error) {
	drawn := 0
	for _, seg := range segments {
		if seg.Hidden {
			continue
		}

		if err := s.DrawLine(int(seg.P1.X), int(seg.P1.Y), int(seg.P2.X), int(seg.P2.Y)); err != nil {
			return drawn, err
		}

		drawn++
	}

	return drawn, nil
}
