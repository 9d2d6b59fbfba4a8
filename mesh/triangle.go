package mesh

// TriangleStore is the SoA container for triangles: an endpoint triple
// plus the sub-spring triple that bounds it (spec §4.3). Destroy/Restore
// delegate boundary bookkeeping to the FrontierStore so the two
// containers stay consistent without either owning the other.
type TriangleStore struct {
	capacity int

	pointA, pointB, pointC   []PointIndex
	springAB, springBC, springCA []SpringIndex

	isDeleted []bool
}

func NewTriangleStore(capacity int) *TriangleStore {
	return &TriangleStore{
		capacity:  capacity,
		pointA:    make([]PointIndex, capacity),
		pointB:    make([]PointIndex, capacity),
		pointC:    make([]PointIndex, capacity),
		springAB:  make([]SpringIndex, capacity),
		springBC:  make([]SpringIndex, capacity),
		springCA:  make([]SpringIndex, capacity),
		isDeleted: make([]bool, capacity),
	}
}

func (t *TriangleStore) Capacity() int { return t.capacity }

func (t *TriangleStore) Add(idx TriangleIndex, a, b, c PointIndex, ab, bc, ca SpringIndex) {
	i := int(idx)
	t.pointA[i], t.pointB[i], t.pointC[i] = a, b, c
	t.springAB[i], t.springBC[i], t.springCA[i] = ab, bc, ca
	t.isDeleted[i] = false
}

func (t *TriangleStore) IsDeleted(idx TriangleIndex) bool { return t.isDeleted[int(idx)] }

// Points returns the triangle's three vertices in winding order.
func (t *TriangleStore) Points(idx TriangleIndex) (PointIndex, PointIndex, PointIndex) {
	i := int(idx)
	return t.pointA[i], t.pointB[i], t.pointC[i]
}

// Edges returns the triangle's three bounding springs in the order
// AB, BC, CA — the same order the Frontier tracker's cusp rule indexes
// by (spec §4.4).
func (t *TriangleStore) Edges(idx TriangleIndex) [3]SpringIndex {
	i := int(idx)
	return [3]SpringIndex{t.springAB[i], t.springBC[i], t.springCA[i]}
}

// Destroy removes the triangle and unlinks it from its three springs'
// super-triangle slots, then asks the frontier store to update the
// boundary before the springs are queried again — mirroring the
// original's invariant that "springs are already consistent with the
// removal of this triangle" by the time frontier bookkeeping runs.
func (t *TriangleStore) Destroy(idx TriangleIndex, springs *SpringStore, frontiers *FrontierStore) {
	i := int(idx)
	edges := t.Edges(idx)
	for _, e := range edges {
		springs.RemoveSuperTriangle(e, idx)
	}
	t.isDeleted[i] = true
	frontiers.HandleTriangleDestroy(idx, t, springs)
}

// Restore re-adds the triangle and its super-triangle links, then lets
// the frontier store collapse/merge boundary loops as needed.
func (t *TriangleStore) Restore(idx TriangleIndex, springs *SpringStore, frontiers *FrontierStore) {
	i := int(idx)
	t.isDeleted[i] = false
	edges := t.Edges(idx)
	for _, e := range edges {
		springs.AddSuperTriangle(e, idx)
	}
	frontiers.HandleTriangleRestore(idx, t, springs)
}
