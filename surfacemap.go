package corewl

import (
	"fmt"
	"sort"
)

// AttachmentKind distinguishes a tree root from an attached child.
type AttachmentKind uint8

const (
	// AttachRoot marks a surface as the root of its own sub-tree.
	AttachRoot AttachmentKind = iota
	// AttachChild marks a surface as attached under another surface.
	AttachChild
)

// Attachment records where a surface sits in its client's scene tree:
// either it is a Root (owns its own sub-tree) or a Child of another surface
// (follow Parent until a Root is found).
type Attachment struct {
	Kind   AttachmentKind
	Parent SurfaceId // valid only when Kind == AttachChild
}

type surfaceEntry struct {
	surface    Surface
	attachment Attachment
	children   []SurfaceId // direct attachment children, insertion order
}

// SurfaceMap is a per-client scene tree: SurfaceId -> (Surface, Attachment).
// Every id resolves to exactly one Root in a finite number of hops; no
// cycles, no dangling parent pointers.
type SurfaceMap struct {
	entries map[SurfaceId]*surfaceEntry
}

// NewSurfaceMap returns an empty SurfaceMap.
func NewSurfaceMap() *SurfaceMap {
	return &SurfaceMap{entries: make(map[SurfaceId]*surfaceEntry)}
}

// Insert adds sid as its own root. Overwriting an existing id is a caller
// bug; Insert never fails on it (last write wins, children orphaned).
func (m *SurfaceMap) Insert(sid SurfaceId, surface Surface) {
	m.entries[sid] = &surfaceEntry{
		surface:    surface,
		attachment: Attachment{Kind: AttachRoot},
	}
}

// AllIds returns every surface id currently in the map, sorted ascending for
// deterministic iteration (client teardown, debugging).
func (m *SurfaceMap) AllIds() []SurfaceId {
	ids := make([]SurfaceId, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns the surface stored at sid, if any.
func (m *SurfaceMap) Lookup(sid SurfaceId) (Surface, bool) {
	e, ok := m.entries[sid]
	if !ok {
		return Surface{}, false
	}
	return e.surface, true
}

// AttachmentOf returns the Attachment for sid, if it exists.
func (m *SurfaceMap) AttachmentOf(sid SurfaceId) (Attachment, bool) {
	e, ok := m.entries[sid]
	if !ok {
		return Attachment{}, false
	}
	return e.attachment, true
}

// Delete removes sid: detaches it from its parent (if any), then promotes
// each direct attachment child to be a root of its own. Reports whether sid
// was present.
func (m *SurfaceMap) Delete(sid SurfaceId) bool {
	e, ok := m.entries[sid]
	if !ok {
		return false
	}
	if e.attachment.Kind == AttachChild {
		m.detachFromParent(sid, e.attachment.Parent)
	}
	for _, c := range e.children {
		if ce, ok := m.entries[c]; ok {
			ce.attachment = Attachment{Kind: AttachRoot}
		}
	}
	delete(m.entries, sid)
	return true
}

// detachFromParent removes sid from parent's children list. No-op if parent
// is absent or sid is not listed (defensive against an inconsistent map).
func (m *SurfaceMap) detachFromParent(sid, parent SurfaceId) {
	pe, ok := m.entries[parent]
	if !ok {
		return
	}
	for i, c := range pe.children {
		if c == sid {
			pe.children = append(pe.children[:i], pe.children[i+1:]...)
			return
		}
	}
}

// Attach detaches sid from its current parent (no-op if it has none), then,
// if parentSid is non-nil, splices sid under parentSid at the end of
// parentSid's children. Returns an error if either id is absent or if the
// attach would create a cycle (parentSid is sid itself or a descendant of
// sid).
func (m *SurfaceMap) Attach(sid SurfaceId, parentSid *SurfaceId) error {
	e, ok := m.entries[sid]
	if !ok {
		return fmt.Errorf("surfacemap: attach: %w: %d", ErrUnknownSurface, sid)
	}
	if parentSid != nil {
		if _, ok := m.entries[*parentSid]; !ok {
			return fmt.Errorf("surfacemap: attach: %w: %d", ErrUnknownSurface, *parentSid)
		}
		if *parentSid == sid || m.isAncestor(sid, *parentSid) {
			return fmt.Errorf("surfacemap: attach %d under %d: %w", sid, *parentSid, ErrCycle)
		}
	}
	if e.attachment.Kind == AttachChild {
		m.detachFromParent(sid, e.attachment.Parent)
	}
	if parentSid == nil {
		e.attachment = Attachment{Kind: AttachRoot}
		return nil
	}
	e.attachment = Attachment{Kind: AttachChild, Parent: *parentSid}
	m.entries[*parentSid].children = append(m.entries[*parentSid].children, sid)
	return nil
}

// isAncestor reports whether candidate is an ancestor of sid, walking sid's
// parent chain. O(depth).
func (m *SurfaceMap) isAncestor(candidate, sid SurfaceId) bool {
	seen := make(map[SurfaceId]bool)
	for {
		e, ok := m.entries[sid]
		if !ok || e.attachment.Kind != AttachChild {
			return false
		}
		p := e.attachment.Parent
		if p == candidate {
			return true
		}
		if seen[p] {
			return false // defensive: already-broken cycle, stop rather than loop forever
		}
		seen[p] = true
		sid = p
	}
}

// ModifyState applies fn to sid's committed state, replacing it with fn's
// result. Reports whether sid was present.
func (m *SurfaceMap) ModifyState(sid SurfaceId, fn func(SurfaceState) SurfaceState) bool {
	e, ok := m.entries[sid]
	if !ok {
		return false
	}
	e.surface.State = fn(e.surface.State)
	return true
}

// LookupAllIds returns the flattened, depth-first, below-then-node-then-above
// traversal of the rendering sub-tree rooted at sid, as just the ids (used
// for frame-callback delivery).
func (m *SurfaceMap) LookupAllIds(sid SurfaceId) []SurfaceId {
	var out []SurfaceId
	m.walkRenderTree(sid, func(id SurfaceId, _ V2, _ BackendSurfaceHandle) {
		out = append(out, id)
	})
	return out
}

// flattenedSurface is one element of LookupAll's output: a surface's
// accumulated offset and backend handle.
type flattenedSurface struct {
	Offset  V2
	Backend BackendSurfaceHandle
}

// LookupAll returns the flattened, depth-first, below-then-node-then-above
// traversal of the rendering sub-tree rooted at sid, each element carrying
// its accumulated offset (starting from rootOffset) and backend handle.
func (m *SurfaceMap) LookupAll(rootOffset V2, sid SurfaceId) []flattenedSurface {
	var out []flattenedSurface
	m.walkRenderTreeFrom(rootOffset, sid, func(_ SurfaceId, off V2, h BackendSurfaceHandle) {
		out = append(out, flattenedSurface{Offset: off, Backend: h})
	})
	return out
}

func (m *SurfaceMap) walkRenderTree(sid SurfaceId, visit func(SurfaceId, V2, BackendSurfaceHandle)) {
	m.walkRenderTreeFrom(V2{}, sid, visit)
}

// walkRenderTreeFrom recurses via SurfaceState.Below/Above child refs (the
// stacking order with per-child offsets), not the attachment children list
// used by Attach/Delete — rendering order and attachment structure are
// independent concerns.
func (m *SurfaceMap) walkRenderTreeFrom(offset V2, sid SurfaceId, visit func(SurfaceId, V2, BackendSurfaceHandle)) {
	e, ok := m.entries[sid]
	if !ok {
		return
	}
	for _, ref := range e.surface.State.Below {
		m.walkRenderTreeFrom(offset.Add(ref.Offset), ref.Surface, visit)
	}
	visit(sid, offset, e.surface.BackendData)
	for _, ref := range e.surface.State.Above {
		m.walkRenderTreeFrom(offset.Add(ref.Offset), ref.Surface, visit)
	}
}
