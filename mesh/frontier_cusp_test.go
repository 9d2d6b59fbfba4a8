package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drydockgames/hullbreaker/simclock"
)

// This file exercises resolveCusp's Int/Int same-frontier-not-directly-
// connected split directly against a hand-built frontier/spring fixture,
// rather than through a full triangle mesh: reaching that exact branch
// via BuildFromGrid + triangle destroys would require first fracturing
// the hull into disconnected pieces, which real shipyard grids don't
// make convenient to set up deterministically.
//
// Fixture: a 4-edge Internal frontier loop SN->Sx->SO1->Sy->SN where SN
// sits in one structurally disconnected point cluster ("new" side) and
// SO1 sits in another ("old" side); Sx and Sy are marked deleted so they
// don't bridge the two clusters in the mesh graph, only in the frontier
// cycle. The new side can reach a separate External frontier edge
// through a live spring; the old side cannot reach any External edge.
func buildCuspFixture(t *testing.T) (f *FrontierStore, springs *SpringStore, points *PointStore, cuspIn, cuspOut SpringIndex, mergedID FrontierIndex) {
	const (
		n0 PointIndex = 0
		n1 PointIndex = 1
		nx PointIndex = 2 // reachable only from the new side
		o0 PointIndex = 3
		o1 PointIndex = 4
	)
	points = NewPointStore(simclock.RealClock{}, 5, 0)

	springs = NewSpringStore(5)
	const (
		sn    SpringIndex = 0 // n0-n1, live, cuspOut
		snExt SpringIndex = 1 // n1-nx, live, carries the External frontier
		sx    SpringIndex = 2 // n1-o0, deleted bridge
		so1   SpringIndex = 3 // o0-o1, live, cuspIn
		sy    SpringIndex = 4 // o1-n0, deleted bridge
	)
	springs.Add(sn, n0, n1, 0, 0, 1, 1, 0, NoneIndex, NoneIndex, SpringCharacteristics{}, points)
	springs.Add(snExt, n1, nx, 0, 0, 1, 1, 0, NoneIndex, NoneIndex, SpringCharacteristics{}, points)
	springs.Add(sx, n1, o0, 0, 0, 1, 1, 0, NoneIndex, NoneIndex, SpringCharacteristics{}, points)
	springs.Add(so1, o0, o1, 0, 0, 1, 1, 0, NoneIndex, NoneIndex, SpringCharacteristics{}, points)
	springs.Add(sy, o1, n0, 0, 0, 1, 1, 0, NoneIndex, NoneIndex, SpringCharacteristics{}, points)
	springs.Destroy(sx, points)
	springs.Destroy(sy, points)

	f = NewFrontierStore(5, 5)
	f.AddFrontier(FrontierExternal, []SpringIndex{snExt}, []PointIndex{n1}, []PointIndex{nx})
	mergedID = f.AddFrontier(FrontierInternal,
		[]SpringIndex{sn, sx, so1, sy},
		[]PointIndex{n0, n1, o0, o1},
		[]PointIndex{n1, o0, o1, n0})

	return f, springs, points, so1, sn, mergedID
}

// The Int/Int same-frontier split must promote whichever resulting half
// cannot reach an External frontier through the live mesh graph, not
// always the newly allocated half (spec §4.4's cusp table).
func TestResolveCuspPromotesTheHalfWithoutExternalAccess(t *testing.T) {
	f, springs, points, cuspIn, cuspOut, mergedID := buildCuspFixture(t)

	require.False(t, f.directlyConnected(cuspIn, cuspOut))

	newID := f.resolveCusp(cuspIn, cuspOut, PointIndex(1), springs, points)

	require.Equal(t, FrontierInternal, f.TypeOf(newID), "the side with External access stays Internal")
	require.Equal(t, FrontierExternal, f.TypeOf(mergedID), "the side without External access must be promoted")
}
