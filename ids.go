package corewl

import "sort"

// ClientId identifies a connected client. Unique for the lifetime of the
// connection; returned to the allocator on disconnect.
type ClientId uint32

// SurfaceId identifies a surface within a single client's SurfaceMap.
// Not unique across clients; pair with a ClientId to get global identity.
type SurfaceId uint32

// OutputId identifies a physical display output.
type OutputId uint32

// ClientSurfaceId globally identifies a surface. This is the window-identity
// value used throughout the Universe and Layout.
type ClientSurfaceId struct {
	Client  ClientId
	Surface SurfaceId
}

// Diet is a smallest-free-id allocator backed by a sorted list of half-open
// [lo, hi) intervals of allocated ids. Single-threaded, like the rest of the
// Engine: no locking, no atomics.
type Diet struct {
	allocated []dietInterval
}

type dietInterval struct {
	lo, hi uint32 // [lo, hi)
}

// NewDiet returns an empty allocator.
func NewDiet() *Diet {
	return &Diet{}
}

// Alloc returns the smallest id not currently allocated and marks it
// allocated.
func (d *Diet) Alloc() uint32 {
	var prevHi uint32
	for i, iv := range d.allocated {
		if iv.lo > prevHi {
			// gap before this interval
			id := prevHi
			d.insertAt(i, id)
			return id
		}
		prevHi = iv.hi
	}
	d.insertAt(len(d.allocated), prevHi)
	return prevHi
}

// insertAt inserts id into the interval list, merging with adjacent
// intervals where possible. idx is the index of the first interval whose lo
// is > id (i.e. the insertion point found by the caller's scan).
func (d *Diet) insertAt(idx int, id uint32) {
	mergeLeft := idx > 0 && d.allocated[idx-1].hi == id
	mergeRight := idx < len(d.allocated) && d.allocated[idx].lo == id+1

	switch {
	case mergeLeft && mergeRight:
		d.allocated[idx-1].hi = d.allocated[idx].hi
		d.allocated = append(d.allocated[:idx], d.allocated[idx+1:]...)
	case mergeLeft:
		d.allocated[idx-1].hi = id + 1
	case mergeRight:
		d.allocated[idx].lo = id
	default:
		d.allocated = append(d.allocated, dietInterval{})
		copy(d.allocated[idx+1:], d.allocated[idx:])
		d.allocated[idx] = dietInterval{lo: id, hi: id + 1}
	}
}

// Free returns id to the pool. No-op if id was not allocated.
func (d *Diet) Free(id uint32) {
	i := sort.Search(len(d.allocated), func(i int) bool {
		return d.allocated[i].hi > id
	})
	if i >= len(d.allocated) || d.allocated[i].lo > id {
		return // not allocated
	}
	iv := d.allocated[i]
	switch {
	case iv.lo == id && iv.hi == id+1:
		d.allocated = append(d.allocated[:i], d.allocated[i+1:]...)
	case iv.lo == id:
		d.allocated[i].lo = id + 1
	case iv.hi == id+1:
		d.allocated[i].hi = id
	default:
		// split into two intervals
		left := dietInterval{lo: iv.lo, hi: id}
		right := dietInterval{lo: id + 1, hi: iv.hi}
		d.allocated = append(d.allocated, dietInterval{})
		copy(d.allocated[i+2:], d.allocated[i+1:])
		d.allocated[i] = left
		d.allocated[i+1] = right
	}
}

// IsAllocated reports whether id is currently allocated.
func (d *Diet) IsAllocated(id uint32) bool {
	i := sort.Search(len(d.allocated), func(i int) bool {
		return d.allocated[i].hi > id
	})
	return i < len(d.allocated) && d.allocated[i].lo <= id
}
