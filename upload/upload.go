// Package upload defines the renderer-facing interface a simulation
// tick's results are pushed through (spec §6). The core never imports a
// renderer; it only emits these flat records into whatever Sink the
// host application supplies, one upload pass per tick, consistent with
// that tick's integration result.
package upload

import "github.com/go-gl/mathgl/mgl32"

// PlaneID mirrors mesh.PlaneID without importing package mesh, keeping
// this package a leaf the way events is.
type PlaneID int32

// ShipPointRecord is one vertex of the mesh, uploaded every tick for
// every non-deleted point (spec §3 Point; §6 Upload interface).
type ShipPointRecord struct {
	Index     int32
	Position  mgl32.Vec2
	Water     float64
	Temperature float64
	Plane     PlaneID
	IsDamaged bool
}

// SpringRecord is one non-deleted spring edge, carrying enough state for
// the renderer to color it by strain without recomputing anything.
type SpringRecord struct {
	Index      int32
	PointA, PointB int32
	Strain     float64
	IsStressed bool
}

// TriangleRecord is one non-deleted triangle face.
type TriangleRecord struct {
	Index          int32
	PointA, PointB, PointC int32
}

// FrontierEdgeRecord is one directed edge of a frontier loop, emitted
// only when the owning frontier's dirtyForRendering flag is set (spec
// §4.4's "upload layer regenerates per-edge colour channels").
type FrontierEdgeRecord struct {
	FrontierID int32
	IsExternal bool
	From, To   int32
}

// FlameRecord is one burning point's rendered flame sprite.
type FlameRecord struct {
	Point            int32
	FlameDevelopment float64
	Plane            PlaneID
}

// EphemeralParticleRecord is one ephemeral point (bubble, debris, smoke,
// sparkle, wake — spec Glossary).
type EphemeralParticleRecord struct {
	Point    int32
	Position mgl32.Vec2
	Kind     int32
	Progress float64 // 0..1 through its lifetime
	Plane    PlaneID
}

// HighlightRecord is a transient UI highlight quad around a point (e.g.
// the currently targeted repair/destroy radius).
type HighlightRecord struct {
	Point int32
	Color [4]uint8
}

// Sink is the renderer-owned double buffer every renderable component
// writes into, one call family per record type (spec §6). ShipID lets a
// single Sink implementation demultiplex multiple ships.
type Sink interface {
	UploadShipPoints(shipID int32, points []ShipPointRecord)
	UploadSprings(shipID int32, springs []SpringRecord)
	UploadTriangles(shipID int32, triangles []TriangleRecord)
	UploadFrontierEdge(shipID int32, edge FrontierEdgeRecord)
	UploadFlame(shipID int32, flame FlameRecord)
	UploadEphemeralParticle(shipID int32, particle EphemeralParticleRecord)
	UploadHighlight(shipID int32, highlight HighlightRecord)
}

// NopSink discards every record; useful as a default when a caller
// drives the simulation headlessly (e.g. cmd/shipsim, which passes no
// upload sink to simcore.NewWorld).
type NopSink struct{}

func (NopSink) UploadShipPoints(int32, []ShipPointRecord)        {}
func (NopSink) UploadSprings(int32, []SpringRecord)              {}
func (NopSink) UploadTriangles(int32, []TriangleRecord)          {}
func (NopSink) UploadFrontierEdge(int32, FrontierEdgeRecord)     {}
func (NopSink) UploadFlame(int32, FlameRecord)                   {}
func (NopSink) UploadEphemeralParticle(int32, EphemeralParticleRecord) {}
func (NopSink) UploadHighlight(int32, HighlightRecord)           {}
