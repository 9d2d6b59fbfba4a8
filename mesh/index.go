// Package mesh implements the ship mesh data model: the point, spring
// and triangle SoA stores and the frontier boundary tracker (spec
// §3, §4.1-§4.4). All cross-references between these containers are
// dense integer indices, never pointers — lifetime is the container's
// lifetime (Design Note 9).
package mesh

// PointIndex, SpringIndex, TriangleIndex and FrontierIndex are dense
// indices into the respective store's parallel attribute arrays.
type PointIndex int32
type SpringIndex int32
type TriangleIndex int32
type FrontierIndex int32

// NoneIndex is the sentinel for "no such entity", usable for any of the
// index types above via explicit conversion, e.g. mesh.PointIndex(mesh.NoneIndex).
const NoneIndex = -1

// PlaneID is an integer draw-order layer, also used for flame z-ordering
// (Glossary).
type PlaneID int32

// ConnectedComponentID groups points transitively connected by
// non-deleted springs.
type ConnectedComponentID int32
