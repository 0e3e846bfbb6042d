package corewl

// ChildRef references a child surface and the offset at which its parent
// places it.
type ChildRef struct {
	Surface SurfaceId
	Offset  V2
}

// WindowState is present on a surface once it has been given window
// semantics (a title, a class, a geometry). A surface with a WindowState
// and a non-nil Buffer is a mapped window.
type WindowState struct {
	Title    string
	Class    string
	Geometry Rect

	// PopupParent, if non-zero, names the surface this window is
	// positioned relative to, and PopupOffset is the offset from that
	// parent's geometry origin.
	PopupParent SurfaceId
	PopupOffset V2
	IsPopup     bool
}

// SurfaceState is the committed (or pending) content of one surface.
type SurfaceState struct {
	Buffer       *Buffer
	BufferOffset V2
	Scale        int32
	Damage       Rect
	Opaque       Rect
	Input        Rect
	Transform    OutputTransform

	// Below and Above split this surface's children into those stacked
	// beneath it and those stacked above it, each in back-to-front order.
	Below []ChildRef
	Above []ChildRef

	Window *WindowState
}

// IsMapped reports whether s carries both a WindowState and an attached
// buffer — the definition of "mapped" throughout the core.
func (s SurfaceState) IsMapped() bool {
	return s.Window != nil && s.Buffer != nil
}

// Surface is one entry in a client's SurfaceMap: its committed state plus
// the backend's opaque handle for it.
type Surface struct {
	State       SurfaceState
	BackendData BackendSurfaceHandle
}
