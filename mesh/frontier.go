package mesh

// FrontierType distinguishes the outer hull boundary (External) from a
// hole punched into an otherwise-intact hull (Internal) — spec §4.4.
type FrontierType int

const (
	FrontierExternal FrontierType = iota
	FrontierInternal
)

type frontierEdge struct {
	frontier   FrontierIndex
	next, prev SpringIndex
	from, to   PointIndex
}

type frontierRecord struct {
	alive bool
	typ   FrontierType
	size  int
	first SpringIndex
	dirty bool
}

// FrontierStore maintains the external/internal boundary loops of a
// mesh as triangles are destroyed and restored (spec §4.4), grounded on
// Game/Frontiers.cpp. Loops are doubly-linked lists of oriented edges,
// one list node per spring currently on a boundary; a spring with no
// assigned frontier is fully interior (has two live triangles) or not
// part of the mesh at all.
type FrontierStore struct {
	edges     []frontierEdge // indexed by SpringIndex, valid only where frontierOf != NoneIndex
	frontierOf []FrontierIndex

	frontiers []frontierRecord
	freeIDs   []FrontierIndex

	pointVisit []uint64
	visitSeq   uint64
}

func NewFrontierStore(springCapacity, pointCapacity int) *FrontierStore {
	fo := make([]FrontierIndex, springCapacity)
	for i := range fo {
		fo[i] = NoneIndex
	}
	return &FrontierStore{
		edges:      make([]frontierEdge, springCapacity),
		frontierOf: fo,
		pointVisit: make([]uint64, pointCapacity),
	}
}

func (f *FrontierStore) FrontierOf(edge SpringIndex) FrontierIndex { return f.frontierOf[int(edge)] }
func (f *FrontierStore) TypeOf(id FrontierIndex) FrontierType      { return f.frontiers[int(id)].typ }
func (f *FrontierStore) SizeOf(id FrontierIndex) int               { return f.frontiers[int(id)].size }
func (f *FrontierStore) IsDirtyForRendering(id FrontierIndex) bool { return f.frontiers[int(id)].dirty }
func (f *FrontierStore) ClearDirty(id FrontierIndex)               { f.frontiers[int(id)].dirty = false }

func (f *FrontierStore) allocFrontier(typ FrontierType) FrontierIndex {
	if n := len(f.freeIDs); n > 0 {
		id := f.freeIDs[n-1]
		f.freeIDs = f.freeIDs[:n-1]
		f.frontiers[int(id)] = frontierRecord{alive: true, typ: typ}
		return id
	}
	id := FrontierIndex(len(f.frontiers))
	f.frontiers = append(f.frontiers, frontierRecord{alive: true, typ: typ})
	return id
}

// link inserts edge e (with given from/to points) into frontier id's
// cycle immediately after prevEdge (whose own next is overwritten).
func (f *FrontierStore) link(id FrontierIndex, prevEdge, e, nextEdge SpringIndex, from, to PointIndex) {
	f.frontierOf[int(e)] = id
	f.edges[int(e)] = frontierEdge{frontier: id, next: nextEdge, prev: prevEdge, from: from, to: to}
	if prevEdge != NoneIndex {
		f.edges[int(prevEdge)].next = e
	}
	if nextEdge != NoneIndex {
		f.edges[int(nextEdge)].prev = e
	}
}

func (f *FrontierStore) unlink(e SpringIndex) {
	ed := f.edges[int(e)]
	if ed.prev != NoneIndex {
		f.edges[int(ed.prev)].next = ed.next
	}
	if ed.next != NoneIndex {
		f.edges[int(ed.next)].prev = ed.prev
	}
	f.frontierOf[int(e)] = NoneIndex
}

// AddFrontier builds a new frontier of the given type from an ordered
// edge list, each entry a (spring, from, to) triple forming a closed
// CCW loop, deriving the doubly-linked cycle from point continuity
// (spec §4.1's "AddFrontier ... deriving point-in-common continuity").
func (f *FrontierStore) AddFrontier(typ FrontierType, edges []SpringIndex, from, to []PointIndex) FrontierIndex {
	id := f.allocFrontier(typ)
	n := len(edges)
	for i, e := range edges {
		f.frontierOf[int(e)] = id
		f.edges[int(e)] = frontierEdge{frontier: id, from: from[i], to: to[i]}
	}
	for i, e := range edges {
		prevE := edges[(i-1+n)%n]
		nextE := edges[(i+1)%n]
		ed := f.edges[int(e)]
		ed.prev, ed.next = prevE, nextE
		f.edges[int(e)] = ed
	}
	f.frontiers[int(id)] = frontierRecord{alive: true, typ: typ, size: n, first: edges[0], dirty: true}
	return id
}

// DestroyFrontier removes every edge of id from the data structure and
// frees the slot.
func (f *FrontierStore) DestroyFrontier(id FrontierIndex) {
	rec := f.frontiers[int(id)]
	if !rec.alive {
		return
	}
	e := rec.first
	for i := 0; i < rec.size; i++ {
		next := f.edges[int(e)].next
		f.frontierOf[int(e)] = NoneIndex
		e = next
	}
	f.frontiers[int(id)] = frontierRecord{}
	f.freeIDs = append(f.freeIDs, id)
}

// HandleTriangleDestroy implements the destroy-side cases of spec §4.4's
// edgesWithFrontier table, grounded on Frontiers.cpp's
// HandleTriangleDestroy/ProcessTriangleCuspDestroy/
// ProcessTriangleOppositeCuspEdgeDestroy.
func (f *FrontierStore) HandleTriangleDestroy(idx TriangleIndex, triangles *TriangleStore, springs *SpringStore) {
	a, b, c := triangles.Points(idx)
	e := triangles.Edges(idx) // AB, BC, CA
	has := [3]bool{
		f.frontierOf[int(e[0])] != NoneIndex,
		f.frontierOf[int(e[1])] != NoneIndex,
		f.frontierOf[int(e[2])] != NoneIndex,
	}
	count := 0
	for _, h := range has {
		if h {
			count++
		}
	}

	switch count {
	case 0:
		// Freshly exposed hole: new internal frontier traversing
		// C→B→A, i.e. the reverse of the triangle's own A→B→C winding.
		f.AddFrontier(FrontierInternal,
			[]SpringIndex{e[1], e[0], e[2]},
			[]PointIndex{c, b, a},
			[]PointIndex{b, a, c})

	case 1:
		f.splitSingleFrontierEdgeThroughApex(e, a, b, c, has)

	default: // 2 or 3
		f.processCusps(e, a, b, c, has, springs, nil)
	}
}

// splitSingleFrontierEdgeThroughApex replaces the one edge that already
// carries a frontier with the triangle's other two edges, routed
// through the apex point opposite it — the "propagate, bowing outward
// around the new cusp" behaviour (spec §4.4, count==1). The identical
// transformation also resolves HandleTriangleRestore's count==1 case
// (see the comment there): splitting one already-assigned edge into the
// triangle's other two is a purely local rewrite of the linked list and
// does not care whether the triangle is being removed or added.
func (f *FrontierStore) splitSingleFrontierEdgeThroughApex(e [3]SpringIndex, a, b, c PointIndex, has [3]bool) {
	var old, first, second SpringIndex
	var firstFrom, firstTo, secondFrom, secondTo PointIndex

	switch {
	case has[0]: // AB carries the frontier; apex is C
		old = e[0]
		first, firstFrom, firstTo = e[2], c, a    // CA: apex -> A
		second, secondFrom, secondTo = e[1], b, c // BC: B -> apex
	case has[1]: // BC carries the frontier; apex is A
		old = e[1]
		first, firstFrom, firstTo = e[0], a, b    // AB: apex -> B
		second, secondFrom, secondTo = e[2], c, a // CA: C -> apex
	default: // CA carries the frontier; apex is B
		old = e[2]
		first, firstFrom, firstTo = e[1], b, c    // BC: apex -> C
		second, secondFrom, secondTo = e[0], a, b // AB: A -> apex
	}

	old2 := f.edges[int(old)]
	id := old2.frontier
	prevE, nextE := old2.prev, old2.next
	f.unlink(old)

	f.link(id, prevE, first, second, firstFrom, firstTo)
	f.link(id, first, second, nextE, secondFrom, secondTo)

	rec := f.frontiers[int(id)]
	rec.size++
	rec.first = first
	rec.dirty = true
	f.frontiers[int(id)] = rec
}

// mergeTwoCuspEdgesThroughApex is the inverse rewrite: two adjacent
// frontier edges meeting at an apex collapse into the triangle's third
// (previously frontier-free) edge, which inherits their single
// resultant frontier id. Used for the destroy-side single-cusp case
// (edgesWithFrontierCount ∈ {2,3} with exactly one cusp resolved), and,
// unmodified, for HandleTriangleRestore's count==2 case — see the
// comment there.
func (f *FrontierStore) mergeTwoCuspEdgesThroughApex(resultFrontier FrontierIndex, cuspIn, cuspOut, opposite SpringIndex, oppFrom, oppTo PointIndex) {
	prevE := f.edges[int(cuspIn)].prev
	nextE := f.edges[int(cuspOut)].next
	f.unlink(cuspIn)
	f.unlink(cuspOut)
	f.link(resultFrontier, prevE, opposite, nextE, oppFrom, oppTo)

	rec := f.frontiers[int(resultFrontier)]
	rec.size--
	rec.first = opposite
	rec.dirty = true
	f.frontiers[int(resultFrontier)] = rec
}

// directlyConnected reports whether e1 immediately precedes e2 (or vice
// versa) in their shared frontier's traversal, i.e. no other edge lies
// between them at their common vertex.
func (f *FrontierStore) directlyConnected(e1, e2 SpringIndex) bool {
	return f.edges[int(e1)].next == e2 || f.edges[int(e2)].next == e1
}

// replaceFrontier merges the shorter of the two frontiers into the
// longer, relabelling every edge of the absorbed one (spec §4.4's
// "longer frontier absorbs shorter").
func (f *FrontierStore) replaceFrontier(id1, id2 FrontierIndex) FrontierIndex {
	if id1 == id2 {
		return id1
	}
	keep, drop := id1, id2
	if f.frontiers[int(drop)].size > f.frontiers[int(keep)].size {
		keep, drop = drop, keep
	}
	rec := f.frontiers[int(drop)]
	e := rec.first
	for i := 0; i < rec.size; i++ {
		next := f.edges[int(e)].next
		f.edges[int(e)].frontier = keep
		f.frontierOf[int(e)] = keep
		e = next
	}
	keepRec := f.frontiers[int(keep)]
	keepRec.size += rec.size
	keepRec.dirty = true
	f.frontiers[int(keep)] = keepRec
	f.frontiers[int(drop)] = frontierRecord{}
	f.freeIDs = append(f.freeIDs, drop)
	return keep
}

// splitAt cuts a single frontier's cycle into two at the two given
// break points (fromEdge..toEdge becomes one new loop, the remainder
// stays on the original id), used for the Ext/Ext-not-connected and
// Int/Int-same-not-connected split rules.
func (f *FrontierStore) splitAt(fromEdge, toEdge SpringIndex, newType FrontierType) FrontierIndex {
	origID := f.edges[int(fromEdge)].frontier
	newID := f.allocFrontier(newType)

	size := 0
	e := fromEdge
	for {
		f.edges[int(e)].frontier = newID
		f.frontierOf[int(e)] = newID
		size++
		if e == toEdge {
			break
		}
		e = f.edges[int(e)].next
	}
	beforeFrom := f.edges[int(fromEdge)].prev
	afterTo := f.edges[int(toEdge)].next
	f.edges[int(beforeFrom)].next = afterTo
	f.edges[int(afterTo)].prev = beforeFrom
	f.edges[int(fromEdge)].prev = toEdge
	f.edges[int(toEdge)].next = fromEdge

	origRec := f.frontiers[int(origID)]
	origRec.size -= size
	origRec.first = afterTo
	origRec.dirty = true
	f.frontiers[int(origID)] = origRec

	f.frontiers[int(newID)] = frontierRecord{alive: true, typ: newType, size: size, first: fromEdge, dirty: true}
	return newID
}

// hasRegionFrontierOfType BFS-explores the mesh's point/spring graph
// from start (excluding traversal through deleted springs), using a
// monotonic visitSeq so no per-call reset is needed, and reports
// whether any boundary edge of typ is reachable. Grounded on
// Frontiers.cpp's HasRegionFrontierOfType, which resolves the Int/Int
// same-frontier-not-directly-connected cusp rule's "which half has the
// External" question (spec §4.4 cusp table).
func (f *FrontierStore) hasRegionFrontierOfType(start PointIndex, typ FrontierType, springs *SpringStore, points *PointStore) bool {
	f.visitSeq++
	seq := f.visitSeq
	queue := []PointIndex{start}
	f.pointVisit[int(start)] = seq

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for si := 0; si < springs.Capacity(); si++ {
			s := SpringIndex(si)
			if springs.IsDeleted(s) {
				continue
			}
			pa, pb := springs.PointA(s), springs.PointB(s)
			var other PointIndex
			switch p {
			case pa:
				other = pb
			case pb:
				other = pa
			default:
				continue
			}
			if fr := f.frontierOf[si]; fr != NoneIndex && f.frontiers[int(fr)].typ == typ {
				return true
			}
			if f.pointVisit[int(other)] != seq {
				f.pointVisit[int(other)] = seq
				queue = append(queue, other)
			}
		}
	}
	return false
}

// resolveCusp applies the cusp rule table (spec §4.4) for the frontier
// edges meeting at a vertex and returns the resulting single frontier id
// all edges at that cusp now share (possibly unchanged).
func (f *FrontierStore) resolveCusp(cuspIn, cuspOut SpringIndex, otherSideVertex PointIndex, springs *SpringStore, points *PointStore) FrontierIndex {
	inID := f.edges[int(cuspIn)].frontier
	outID := f.edges[int(cuspOut)].frontier
	inType := f.frontiers[int(inID)].typ
	outType := f.frontiers[int(outID)].typ
	connected := f.directlyConnected(cuspIn, cuspOut)

	switch {
	case inType == FrontierExternal && outType == FrontierExternal:
		if inID == outID && connected {
			return inID // no-op
		}
		if inID == outID {
			return f.splitAt(cuspOut, cuspIn, FrontierExternal)
		}
		return f.replaceFrontier(inID, outID)

	case inType == FrontierInternal && outType == FrontierExternal:
		return f.replaceFrontier(outID, inID)
	case inType == FrontierExternal && outType == FrontierInternal:
		return f.replaceFrontier(inID, outID)

	default: // Int/Int
		if inID == outID {
			if connected {
				return inID
			}
			// Split; the half without an External becomes External.
			newID := f.splitAt(cuspOut, cuspIn, FrontierInternal)
			oldSideVertex := f.edges[int(f.frontiers[int(inID)].first)].from
			if !f.hasRegionFrontierOfType(otherSideVertex, FrontierExternal, springs, points) {
				f.frontiers[int(newID)].typ = FrontierExternal
			} else if !f.hasRegionFrontierOfType(oldSideVertex, FrontierExternal, springs, points) {
				f.frontiers[int(inID)].typ = FrontierExternal
			}
			return newID
		}
		return f.replaceFrontier(inID, outID)
	}
}

// processCusps handles edgesWithFrontierCount ∈ {2,3}: visit each of
// the triangle's three vertices, resolving the cusp rule wherever both
// adjacent edges already carry a frontier, then apply the count==1 /
// count==3-collapse follow-up actions (spec §4.4).
func (f *FrontierStore) processCusps(e [3]SpringIndex, a, b, c PointIndex, has [3]bool, springs *SpringStore, points *PointStore) {
	type cusp struct {
		in, out  SpringIndex
		opposite SpringIndex
		oppFrom, oppTo PointIndex
		other    PointIndex // vertex on the far side, for BFS seeding
	}
	cusps := []cusp{
		{in: e[2], out: e[0], opposite: e[1], oppFrom: b, oppTo: c, other: a}, // at A: CA in, AB out
		{in: e[0], out: e[1], opposite: e[2], oppFrom: c, oppTo: a, other: b}, // at B: AB in, BC out
		{in: e[1], out: e[2], opposite: e[0], oppFrom: a, oppTo: b, other: c}, // at C: BC in, CA out
	}
	hasAt := [3]bool{has[2] && has[0], has[0] && has[1], has[1] && has[2]}

	resolved := map[SpringIndex]FrontierIndex{}
	processed := 0
	for i, cu := range cusps {
		if !hasAt[i] {
			continue
		}
		id := f.resolveCusp(cu.in, cu.out, cu.other, springs, points)
		resolved[cu.in] = id
		resolved[cu.out] = id
		processed++
	}

	if processed == 1 {
		for i, cu := range cusps {
			if !hasAt[i] {
				continue
			}
			result := resolved[cu.in]
			f.mergeTwoCuspEdgesThroughApex(result, cu.in, cu.out, cu.opposite, cu.oppFrom, cu.oppTo)
			return
		}
	}

	if processed == 3 {
		id0 := f.frontierOf[int(e[0])]
		if id0 != NoneIndex && id0 == f.frontierOf[int(e[1])] && id0 == f.frontierOf[int(e[2])] {
			f.DestroyFrontier(id0)
		}
	}
}

// HandleTriangleRestore implements the inverse of the table above (spec
// §4.4: "on triangle restoration, the inverse logic applies"). The
// original source only fully implements the edgesWithFrontierCount==3
// case; the other three are left as TODO stubs. This is resolved here
// (see DESIGN.md) by observing that restore's count==1 and count==2
// cases are structurally identical local rewrites to destroy's count==1
// and single-cusp count∈{2,3} cases respectively — both just splice one
// edge for two, or two edges for one, through a triangle's apex,
// independent of which direction supertriangle-count is moving — so
// they reuse the same helpers.
func (f *FrontierStore) HandleTriangleRestore(idx TriangleIndex, triangles *TriangleStore, springs *SpringStore) {
	a, b, c := triangles.Points(idx)
	e := triangles.Edges(idx)
	has := [3]bool{
		f.frontierOf[int(e[0])] != NoneIndex,
		f.frontierOf[int(e[1])] != NoneIndex,
		f.frontierOf[int(e[2])] != NoneIndex,
	}
	count := 0
	for _, h := range has {
		if h {
			count++
		}
	}

	switch count {
	case 0:
		// All three edges already interior on both sides: restoring
		// this triangle touches no frontier at all.
		return

	case 1:
		f.splitSingleFrontierEdgeThroughApex(e, a, b, c, has)

	case 2:
		var cuspIn, cuspOut, opposite SpringIndex
		var oppFrom, oppTo PointIndex
		switch {
		case !has[0]: // AB is the lone non-frontier edge; cusp at C (BC,CA)
			cuspIn, cuspOut, opposite, oppFrom, oppTo = e[1], e[2], e[0], a, b
		case !has[1]: // BC is the lone non-frontier edge; cusp at A (CA,AB)
			cuspIn, cuspOut, opposite, oppFrom, oppTo = e[2], e[0], e[1], b, c
		default: // CA is the lone non-frontier edge; cusp at B (AB,BC)
			cuspIn, cuspOut, opposite, oppFrom, oppTo = e[0], e[1], e[2], c, a
		}
		resultID := f.edges[int(cuspIn)].frontier
		if f.edges[int(cuspOut)].frontier != resultID {
			resultID = f.replaceFrontier(resultID, f.edges[int(cuspOut)].frontier)
		}
		f.mergeTwoCuspEdgesThroughApex(resultID, cuspIn, cuspOut, opposite, oppFrom, oppTo)

	case 3:
		id := f.frontierOf[int(e[0])]
		f.DestroyFrontier(id)
	}
}
