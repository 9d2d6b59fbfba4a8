package mesh

import (
	"math"

	"github.com/drydockgames/hullbreaker/gameparams"
)

// Octant is a coarse 8-way direction a spring's endpoint sits relative
// to the other, used by the repair tool (package interactions) to
// reconstruct factory geometry; it never feeds the integrator.
type Octant int8

// SpringCharacteristics groups the flags Add needs beyond geometry.
type SpringCharacteristics struct {
	IsRope          bool
	IsRubber        bool // marks a rubber band; UpdateStrains applies the same break threshold regardless
	RenderAsRope    bool
}

// SpringStore is the SoA container for springs, grounded on
// Springs.cpp's field layout and the coefficient formulas in spec §4.2.
type SpringStore struct {
	capacity int

	pointA []PointIndex
	pointB []PointIndex

	octantA []Octant
	octantB []Octant

	restLength []float64
	stiffness  []float64 // base stiffness coefficient (material-derived), before per-iteration scaling
	damping    []float64

	cachedStiffnessCoefficient []float64
	cachedDampingCoefficient   []float64

	characteristics []SpringCharacteristics

	superTriangle0 []TriangleIndex
	superTriangle1 []TriangleIndex

	isDeleted []bool
	isStressed []bool

	// current per-tick strain, retained for upload / debugging
	strain []float64
}

func NewSpringStore(capacity int) *SpringStore {
	return &SpringStore{
		capacity:                   capacity,
		pointA:                     make([]PointIndex, capacity),
		pointB:                     make([]PointIndex, capacity),
		octantA:                    make([]Octant, capacity),
		octantB:                    make([]Octant, capacity),
		restLength:                 make([]float64, capacity),
		stiffness:                  make([]float64, capacity),
		damping:                    make([]float64, capacity),
		cachedStiffnessCoefficient: make([]float64, capacity),
		cachedDampingCoefficient:   make([]float64, capacity),
		characteristics:            make([]SpringCharacteristics, capacity),
		superTriangle0:             make([]TriangleIndex, capacity),
		superTriangle1:             make([]TriangleIndex, capacity),
		isDeleted:                  make([]bool, capacity),
		isStressed:                 make([]bool, capacity),
		strain:                     make([]float64, capacity),
	}
}

func (s *SpringStore) Capacity() int { return s.capacity }

// Add installs a spring at idx (pre-assigned by the ship factory, as
// with PointStore.Add), and links it into both endpoints' connected-
// spring adjacency list (spec §3, Design Note 9).
func (s *SpringStore) Add(idx SpringIndex, a, b PointIndex, octantA, octantB Octant, restLength, stiffness, damping float64, superTri0, superTri1 TriangleIndex, ch SpringCharacteristics, points *PointStore) {
	i := int(idx)
	s.pointA[i], s.pointB[i] = a, b
	s.octantA[i], s.octantB[i] = octantA, octantB
	s.restLength[i] = restLength
	s.stiffness[i] = stiffness
	s.damping[i] = damping
	s.superTriangle0[i] = superTri0
	s.superTriangle1[i] = superTri1
	s.characteristics[i] = ch
	s.isDeleted[i] = false
	points.linkSpring(a, idx, b)
	points.linkSpring(b, idx, a)
}

// DestroyOptions names the "destroy all triangles" option of a spring
// break. Destroy does not take it: Destroy never touches triangles, and
// callers destroy a broken spring's triangles themselves.
type DestroyOptions struct {
	DestroyAllTriangles bool
}

// Destroy marks the spring deleted and removes it from both endpoints'
// adjacency lists.
func (s *SpringStore) Destroy(idx SpringIndex, points *PointStore) {
	i := int(idx)
	s.isDeleted[i] = true
	points.unlinkSpring(s.pointA[i], idx)
	points.unlinkSpring(s.pointB[i], idx)
}

// Restore reverses a prior Destroy, re-linking the spring into both
// endpoints' adjacency lists.
func (s *SpringStore) Restore(idx SpringIndex, points *PointStore) {
	i := int(idx)
	s.isDeleted[i] = false
	points.linkSpring(s.pointA[i], idx, s.pointB[i])
	points.linkSpring(s.pointB[i], idx, s.pointA[i])
}

func (s *SpringStore) IsDeleted(idx SpringIndex) bool { return s.isDeleted[int(idx)] }
func (s *SpringStore) PointA(idx SpringIndex) PointIndex { return s.pointA[int(idx)] }
func (s *SpringStore) PointB(idx SpringIndex) PointIndex { return s.pointB[int(idx)] }

// OctantA and OctantB return the factory-time discrete direction of the
// other endpoint, as seen from PointA and PointB respectively; the
// repair tool uses these to reconstruct a detached point's original
// angular position (spec §4.13).
func (s *SpringStore) OctantA(idx SpringIndex) Octant { return s.octantA[int(idx)] }
func (s *SpringStore) OctantB(idx SpringIndex) Octant { return s.octantB[int(idx)] }

func (s *SpringStore) Characteristics(idx SpringIndex) SpringCharacteristics {
	return s.characteristics[int(idx)]
}
func (s *SpringStore) RestLength(idx SpringIndex) float64 { return s.restLength[int(idx)] }
func (s *SpringStore) IsStressed(idx SpringIndex) bool { return s.isStressed[int(idx)] }
func (s *SpringStore) Strain(idx SpringIndex) float64 { return s.strain[int(idx)] }

func (s *SpringStore) SuperTriangles(idx SpringIndex) (TriangleIndex, TriangleIndex) {
	i := int(idx)
	return s.superTriangle0[i], s.superTriangle1[i]
}

// SuperTriangleCount returns how many live triangles currently reference
// this spring as an edge (0, 1 or 2) — the Frontier tracker's
// edgesWithFrontier logic is defined in terms of this count's transition.
func (s *SpringStore) SuperTriangleCount(idx SpringIndex) int {
	i := int(idx)
	n := 0
	if s.superTriangle0[i] != NoneIndex {
		n++
	}
	if s.superTriangle1[i] != NoneIndex {
		n++
	}
	return n
}

func (s *SpringStore) AddSuperTriangle(idx SpringIndex, t TriangleIndex) {
	i := int(idx)
	if s.superTriangle0[i] == NoneIndex {
		s.superTriangle0[i] = t
	} else {
		s.superTriangle1[i] = t
	}
}

func (s *SpringStore) RemoveSuperTriangle(idx SpringIndex, t TriangleIndex) {
	i := int(idx)
	switch {
	case s.superTriangle0[i] == t:
		s.superTriangle0[i] = s.superTriangle1[i]
		s.superTriangle1[i] = NoneIndex
	case s.superTriangle1[i] == t:
		s.superTriangle1[i] = NoneIndex
	}
}

// UpdateForMass recomputes the stiffness and damping coefficients from
// current point masses, grounded on the formula in spec §4.2:
// stiffness = reductionFraction·stiffness·adj·(mA·mB/(mA+mB))/(dt/N)^2.
func (s *SpringStore) UpdateForMass(points *PointStore, gp *gameparams.GameParameters, dtPerIteration float64, reductionFraction float64) {
	dtSq := dtPerIteration * dtPerIteration
	for i := 0; i < s.capacity; i++ {
		if s.isDeleted[i] {
			continue
		}
		mA := points.Mass(s.pointA[i])
		mB := points.Mass(s.pointB[i])
		reducedMass := mA * mB / (mA + mB)
		s.cachedStiffnessCoefficient[i] = reductionFraction * s.stiffness[i] * gp.SpringStiffnessAdjustment * reducedMass / dtSq
		s.cachedDampingCoefficient[i] = s.damping[i] * gp.SpringDampingAdjustment * reducedMass / dtPerIteration
	}
}

// UpdateForRestLength recomputes rest length after a repair/saw tool
// moves an endpoint permanently (as opposed to the transient stretch
// captured by strain).
func (s *SpringStore) UpdateForRestLength(idx SpringIndex, points *PointStore) {
	i := int(idx)
	s.restLength[i] = float64(points.Position(s.pointA[i]).Sub(points.Position(s.pointB[i])).Len())
}

// ApplyHookeForces computes the Hooke-plus-damping force for every
// non-deleted spring and adds/subtracts it at its endpoints (spec §4.6
// step 1), grounded on the force-application pattern in
// Gekko3D-gekko's physics.go.
func (s *SpringStore) ApplyHookeForces(points *PointStore) {
	for i := 0; i < s.capacity; i++ {
		if s.isDeleted[i] {
			continue
		}
		a, b := s.pointA[i], s.pointB[i]
		pa, pb := points.Position(a), points.Position(b)
		delta := pb.Sub(pa)
		dist := delta.Len()
		if dist < 1e-6 {
			continue
		}
		dir := delta.Mul(1.0 / dist)

		displacement := float64(dist) - s.restLength[i]
		springForce := displacement * s.cachedStiffnessCoefficient[i]

		va, vb := points.Velocity(a), points.Velocity(b)
		relVel := vb.Sub(va)
		dampingForce := float64(relVel.Dot(dir)) * s.cachedDampingCoefficient[i]

		total := float32(springForce + dampingForce)
		f := dir.Mul(total)
		points.AddDynamicForce(a, f)
		points.AddDynamicForce(b, f.Mul(-1))
	}
}

// effectiveStrengthFactor implements f(r) = 4/(1+3·r^1.3), spec §4.2.
func effectiveStrengthFactor(iterationsAdjustment float64) float64 {
	return 4.0 / (1.0 + 3.0*math.Pow(iterationsAdjustment, 1.3))
}

// UpdateStrains recomputes each spring's strain, updates the stress
// hysteresis flag, and returns the set of springs whose strain exceeded
// their effective strength this tick so the caller can destroy them
// (together with whatever triangle-destroy cascade DestroyAllTriangles
// implies) — spec §4.2.
func (s *SpringStore) UpdateStrains(points *PointStore, gp *gameparams.GameParameters, baseStrength float64) []SpringIndex {
	effectiveStrength := effectiveStrengthFactor(gp.NumMechanicalDynamicsIterationsAdjustment) *
		gp.SpringStrengthAdjustment * baseStrength

	var broken []SpringIndex
	for i := 0; i < s.capacity; i++ {
		if s.isDeleted[i] {
			continue
		}
		a, b := s.pointA[i], s.pointB[i]
		dist := float64(points.Position(a).Sub(points.Position(b)).Len())
		strain := math.Abs(s.restLength[i]-dist) / s.restLength[i]
		s.strain[i] = strain

		switch {
		case strain > effectiveStrength:
			broken = append(broken, SpringIndex(i))
		case strain > 0.5*effectiveStrength:
			s.isStressed[i] = true
		case strain < 0.08*effectiveStrength:
			s.isStressed[i] = false
		}
	}
	return broken
}
