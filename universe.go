package corewl

// Workspace is a named ordered collection of windows with a focus.
type Workspace[W comparable] struct {
	Tag     string
	Windows *Zipper[W]
}

// Screen is a workspace currently displayed on an output.
type Screen[W comparable] struct {
	Workspace *Workspace[W]
	Output    MappedOutput
}

// Universe is the output-to-workspace-to-window focus model: a focus-zipper
// of visible Screens, a list of hidden Workspaces, and a floating-window
// rect override map. The Universe knows only W (ClientSurfaceId in
// practice); it never dereferences it — the Engine owns the join to actual
// surface data.
type Universe[W comparable] struct {
	screens  *Zipper[*Screen[W]]
	hidden   []*Workspace[W]
	floating map[W]Rect
}

// NewUniverse creates empty screens, one hidden Workspace per tag (in
// order), and an empty floating set.
func NewUniverse[W comparable](tags []string) *Universe[W] {
	hidden := make([]*Workspace[W], len(tags))
	for i, tag := range tags {
		hidden[i] = &Workspace[W]{Tag: tag, Windows: NewZipper[W]()}
	}
	return &Universe[W]{
		screens:  NewZipper[*Screen[W]](),
		hidden:   hidden,
		floating: make(map[W]Rect),
	}
}

// SetOutputs creates one Screen per output, drawing workspaces from the
// currently-on-screen workspaces (in order) followed by the hidden
// workspaces, zipped to outputs by index. Surplus workspaces return to
// hidden; surplus outputs get no screen (truncated to
// min(#workspaces, #outputs)). Floating is preserved.
func (u *Universe[W]) SetOutputs(outputs []MappedOutput) {
	var pool []*Workspace[W]
	for _, s := range u.screens.ToSlice() {
		pool = append(pool, s.Workspace)
	}
	pool = append(pool, u.hidden...)

	n := len(pool)
	if len(outputs) < n {
		n = len(outputs)
	}

	screens := make([]*Screen[W], n)
	for i := 0; i < n; i++ {
		screens[i] = &Screen[W]{Workspace: pool[i], Output: outputs[i]}
	}
	u.screens = ZipperFromSlice(screens)
	u.hidden = pool[n:]
}

// Insert places w above the currently focused item of the currently focused
// screen's workspace. If no screen exists, it inserts into the first hidden
// workspace. If no workspaces exist at all, it is a no-op.
func (u *Universe[W]) Insert(w W) {
	if s := u.screens.Focus(); s != nil {
		(*s).Workspace.Windows.InsertBefore(w)
		return
	}
	if len(u.hidden) > 0 {
		u.hidden[0].Windows.InsertBefore(w)
	}
}

// Delete removes w from wherever it lives: every screen workspace, every
// hidden workspace, and the floating set.
func (u *Universe[W]) Delete(w W) {
	for _, s := range u.screens.ToSlice() {
		s.Workspace.Windows.DeleteMatch(func(v W) bool { return v == w })
	}
	for _, ws := range u.hidden {
		ws.Windows.DeleteMatch(func(v W) bool { return v == w })
	}
	delete(u.floating, w)
}

// Filter removes every window for which keep returns false, across all
// screen workspaces, hidden workspaces, and the floating set. Used for mass
// removal, e.g. on client disconnect.
func (u *Universe[W]) Filter(keep func(W) bool) {
	for _, s := range u.screens.ToSlice() {
		s.Workspace.Windows = ZipperFromSlice(filterSlice(s.Workspace.Windows.ToSlice(), keep))
	}
	for _, ws := range u.hidden {
		ws.Windows = ZipperFromSlice(filterSlice(ws.Windows.ToSlice(), keep))
	}
	for w := range u.floating {
		if !keep(w) {
			delete(u.floating, w)
		}
	}
}

func filterSlice[W any](items []W, keep func(W) bool) []W {
	out := items[:0:0]
	for _, v := range items {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// OnOutput returns the windows of the workspace currently displayed on the
// given output, in workspace order. Empty if no screen maps to that output.
func (u *Universe[W]) OnOutput(oid OutputId) []W {
	for _, s := range u.screens.ToSlice() {
		if s.Output.Output.ID == oid {
			return s.Workspace.Windows.ToSlice()
		}
	}
	return nil
}

// Screens returns the current visible screens in display order (rightmost
// output first, matching MappedOutput's head-is-rightmost convention).
func (u *Universe[W]) Screens() []*Screen[W] {
	return u.screens.ToSlice()
}

// Hidden returns the current hidden workspaces.
func (u *Universe[W]) Hidden() []*Workspace[W] {
	return u.hidden
}

// SetFloating marks w as floating with the given rect override. Passing a
// zero Rect is a valid override; use ClearFloating to remove the override.
func (u *Universe[W]) SetFloating(w W, r Rect) {
	u.floating[w] = r
}

// ClearFloating removes w's floating override, if any.
func (u *Universe[W]) ClearFloating(w W) {
	delete(u.floating, w)
}

// Floating returns w's floating rect override and whether one exists.
func (u *Universe[W]) Floating(w W) (Rect, bool) {
	r, ok := u.floating[w]
	return r, ok
}
