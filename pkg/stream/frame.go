package stream

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/livelayout/pkg/coords"
	"github.com/matzehuels/livelayout/pkg/layout"
)

// Point is the wire form of a coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts p to a coordinate.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Frame is one change notification on the wire.
//
// Positions holds the coordinates of the added keys as read just after the
// change was delivered; a key changed again in between carries its newer
// coordinate, and a key already removed again is omitted.
type Frame struct {
	Seq       uint64           `json:"seq"`
	Snapshot  bool             `json:"snapshot,omitempty"`
	Added     []string         `json:"added,omitempty"`
	Removed   []string         `json:"removed,omitempty"`
	Positions map[string]Point `json:"positions,omitempty"`
}

// EncodePositions converts positions to their wire form.
func EncodePositions(pos map[string]r2.Vec) map[string]Point {
	out := make(map[string]Point, len(pos))
	for id, v := range pos {
		out[id] = Point{X: v.X, Y: v.Y}
	}
	return out
}

// DecodePositions converts wire positions to layout positions.
func DecodePositions(pts map[string]Point) layout.Positions {
	out := make(layout.Positions, len(pts))
	for id, p := range pts {
		out[id] = p.Vec()
	}
	return out
}

// eventFrame builds the frame for e, reading added positions from store.
func eventFrame(seq uint64, e coords.Event[string], store *coords.Store[string, r2.Vec]) Frame {
	f := Frame{Seq: seq, Added: e.Added, Removed: e.Removed}
	if len(e.Added) > 0 {
		f.Positions = EncodePositions(store.LocationCopy(e.Added...))
	}
	return f
}

// snapshotFrame builds a frame carrying every active position.
func snapshotFrame(seq uint64, store *coords.Store[string, r2.Vec]) Frame {
	active := store.ActiveCopy()
	return Frame{
		Seq:       seq,
		Snapshot:  true,
		Added:     layout.Positions(active).IDs(),
		Positions: EncodePositions(active),
	}
}
