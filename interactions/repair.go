package interactions

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/drydockgames/hullbreaker/mesh"
)

// octantAngle maps a factory-time octant (spec §4.13's "factory-octant
// position") to its angle in radians, matching the (dx,dy) table package
// shipyard builds springs from.
func octantAngle(o mesh.Octant) float64 {
	return float64(o) * math.Pi / 4
}

func octantUnitVector(o mesh.Octant) mgl32.Vec2 {
	a := octantAngle(o)
	return mgl32.Vec2{float32(math.Cos(a)), float32(math.Sin(a))}
}

// incidentLiveSprings returns every non-deleted spring with idx as an
// endpoint, via idx's connected-spring adjacency list rather than a
// full spring scan.
func (d *Dispatcher) incidentLiveSprings(idx mesh.PointIndex) []mesh.SpringIndex {
	links := d.Points.ConnectedSprings(idx)
	if len(links) == 0 {
		return nil
	}
	out := make([]mesh.SpringIndex, len(links))
	for i, l := range links {
		out[i] = l.Spring
	}
	return out
}

// incidentBrokenSprings returns every deleted spring with idx as an
// endpoint — the mesh never forgets a spring's factory topology, so this
// doubles as "springs missing relative to factory time" (spec §4.13).
// Deleted springs are unlinked from the adjacency list on destroy (spec
// §3, Design Note 9), so recovering factory topology still needs a full
// scan here.
func (d *Dispatcher) incidentBrokenSprings(idx mesh.PointIndex) []mesh.SpringIndex {
	var out []mesh.SpringIndex
	for si := 0; si < d.Springs.Capacity(); si++ {
		s := mesh.SpringIndex(si)
		if !d.Springs.IsDeleted(s) {
			continue
		}
		if d.Springs.PointA(s) == idx || d.Springs.PointB(s) == idx {
			out = append(out, s)
		}
	}
	return out
}

func (d *Dispatcher) otherEndpoint(s mesh.SpringIndex, idx mesh.PointIndex) mesh.PointIndex {
	if d.Springs.PointA(s) == idx {
		return d.Springs.PointB(s)
	}
	return d.Springs.PointA(s)
}

// octantFrom returns the factory octant direction from idx toward its
// spring partner.
func (d *Dispatcher) octantFrom(s mesh.SpringIndex, idx mesh.PointIndex) mesh.Octant {
	if d.Springs.PointA(s) == idx {
		return d.Springs.OctantA(s)
	}
	return d.Springs.OctantB(s)
}

// RepairAt runs the three-pass repair algorithm over every raw-ship
// point within gp.RepairRadius·radiusMultiplier of target (spec §4.13):
// straighten naked chains, attractor-selection pull toward the
// reconstructed factory angular position, and triangle restoration with
// a fold (CCW-winding) rejection test, grounded on
// Ship_Interactions_Repair.cpp's three-pass structure (without its
// per-session attractor/attractee memory layer — see DESIGN.md).
func (d *Dispatcher) RepairAt(target mgl32.Vec2, radiusMultiplier float64) {
	radius := d.GameParams.RepairRadius * radiusMultiplier
	sqRadius := radius * radius

	var inRadius []mesh.PointIndex
	for i := 0; i < d.Points.Capacity(); i++ {
		idx := mesh.PointIndex(i)
		if d.Points.IsDeleted(idx) || d.Points.IsEphemeral(idx) {
			continue
		}
		if squareDist(d.Points.Position(idx), target) <= sqRadius {
			inRadius = append(inRadius, idx)
		}
	}

	d.repairStraightenChains(inRadius)
	d.repairAttractorPull(inRadius)
	d.repairRestoreTriangles(inRadius)
}

// repairStraightenChains snaps any point with exactly one live spring
// back to the factory octant position and rest length relative to that
// one neighbour — covers one-spring chains directly, and transitively
// straightens two-spring chains since the chain's middle point becomes
// degree-1 in the live graph once its far end is snapped into place by
// an earlier pass over the same point list.
func (d *Dispatcher) repairStraightenChains(points []mesh.PointIndex) {
	for _, idx := range points {
		live := d.incidentLiveSprings(idx)
		if len(live) != 1 {
			continue
		}
		s := live[0]
		anchor := d.otherEndpoint(s, idx)
		if d.Points.IsDeleted(anchor) {
			continue
		}
		oct := d.octantFrom(s, anchor)
		dir := octantUnitVector(oct)
		desired := d.Points.Position(anchor).Add(dir.Mul(float32(d.Springs.RestLength(s))))
		d.Points.SetPosition(idx, desired)
		d.Points.SetVelocity(idx, mgl32.Vec2{})
	}
}

const repairPullFraction = 0.15

// repairAttractorPull pulls the far endpoint of each in-radius point's
// broken springs a fraction of the way toward the position its factory
// octant (rotated by how much the point's surviving springs have
// drifted from their own factory directions) implies, rejecting any
// pull that would wind the point's neighbourhood clockwise (spec §4.13
// fold rejection).
func (d *Dispatcher) repairAttractorPull(points []mesh.PointIndex) {
	for _, idx := range points {
		live := d.incidentLiveSprings(idx)
		if len(live) == 0 {
			continue // orphaned: not eligible as an attractor
		}

		rotation := d.averageDrift(idx, live)

		for _, broken := range d.incidentBrokenSprings(idx) {
			q := d.otherEndpoint(broken, idx)
			if d.Points.IsDeleted(q) {
				continue
			}
			oct := d.octantFrom(broken, idx)
			dir := rotate(octantUnitVector(oct), rotation)
			desired := d.Points.Position(idx).Add(dir.Mul(float32(d.Springs.RestLength(broken))))

			current := d.Points.Position(q)
			candidate := current.Add(desired.Sub(current).Mul(repairPullFraction))

			if d.wouldFoldNeighbourhood(q, candidate) {
				continue
			}
			d.Points.SetPosition(q, candidate)
		}
	}
}

// averageDrift computes the mean angular difference between each live
// spring's current direction and its stored factory octant direction,
// so the attractor pull rotates consistently with however the local
// mesh has actually deformed rather than snapping to absolute world
// axes.
func (d *Dispatcher) averageDrift(idx mesh.PointIndex, live []mesh.SpringIndex) float64 {
	if len(live) == 0 {
		return 0
	}
	var sumSin, sumCos float64
	pos := d.Points.Position(idx)
	for _, s := range live {
		other := d.otherEndpoint(s, idx)
		current := d.Points.Position(other).Sub(pos)
		if current.Len() < 1e-6 {
			continue
		}
		currentAngle := math.Atan2(float64(current[1]), float64(current[0]))
		factoryAngle := octantAngle(d.octantFrom(s, idx))
		delta := currentAngle - factoryAngle
		sumSin += math.Sin(delta)
		sumCos += math.Cos(delta)
	}
	if sumSin == 0 && sumCos == 0 {
		return 0
	}
	return math.Atan2(sumSin, sumCos)
}

func rotate(v mgl32.Vec2, angle float64) mgl32.Vec2 {
	s, c := math.Sincos(angle)
	return mgl32.Vec2{
		float32(float64(v[0])*c - float64(v[1])*s),
		float32(float64(v[0])*s + float64(v[1])*c),
	}
}

// wouldFoldNeighbourhood reports whether moving q to candidate would
// wind any of q's currently-live triangles clockwise (spec §4.13:
// "Repair rejects target positions that would form a CCW-oriented
// triangle, to prevent folding" — every triangle in this mesh is wound
// counter-clockwise at construction, so a clockwise result after the
// move is the fold signal).
func (d *Dispatcher) wouldFoldNeighbourhood(q mesh.PointIndex, candidate mgl32.Vec2) bool {
	for ti := 0; ti < d.Triangles.Capacity(); ti++ {
		t := mesh.TriangleIndex(ti)
		if d.Triangles.IsDeleted(t) {
			continue
		}
		a, b, c := d.Triangles.Points(t)
		if a != q && b != q && c != q {
			continue
		}
		pa, pb, pc := d.Points.Position(a), d.Points.Position(b), d.Points.Position(c)
		switch q {
		case a:
			pa = candidate
		case b:
			pb = candidate
		case c:
			pc = candidate
		}
		if signedArea2(pa, pb, pc) <= 0 {
			return true
		}
	}
	return false
}

func signedArea2(a, b, c mgl32.Vec2) float32 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// repairRestoreTriangles restores any deleted triangle touching an
// in-radius point whose three bounding springs are all live, rejecting
// restorations that would currently wind clockwise (spec §4.13 pass 3).
func (d *Dispatcher) repairRestoreTriangles(points []mesh.PointIndex) {
	inRadius := make(map[mesh.PointIndex]bool, len(points))
	for _, p := range points {
		inRadius[p] = true
	}

	for ti := 0; ti < d.Triangles.Capacity(); ti++ {
		t := mesh.TriangleIndex(ti)
		if !d.Triangles.IsDeleted(t) {
			continue
		}
		a, b, c := d.Triangles.Points(t)
		if !inRadius[a] && !inRadius[b] && !inRadius[c] {
			continue
		}
		edges := d.Triangles.Edges(t)
		allLive := true
		for _, e := range edges {
			if d.Springs.IsDeleted(e) {
				allLive = false
				break
			}
		}
		if !allLive {
			continue
		}
		if signedArea2(d.Points.Position(a), d.Points.Position(b), d.Points.Position(c)) <= 0 {
			continue
		}
		d.Triangles.Restore(t, d.Springs, d.Frontiers)
	}
}
