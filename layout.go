package corewl

// WindowRect pairs a window with the rectangle it occupies.
type WindowRect[W comparable] struct {
	Rect   Rect
	Window W
}

// LayoutEntry is one output's slice of the computed layout.
type LayoutEntry[W comparable] struct {
	Output  MappedOutput
	Windows []WindowRect[W]
}

// Layout is a total, pure function from a Universe to per-output window
// rectangles. It depends only on u and the outputs carried inside it, and
// never mutates u.
//
// Reference tiling policy: vertical stack with master. The focused window
// fills the left half of its screen; the remaining windows stack equally in
// the right half (a single window fills the full screen). Windows present
// in the floating set override their tiled rect with the stored rect,
// translated by the screen's top-left. Windows in hidden workspaces never
// appear.
func Layout[W comparable](u *Universe[W]) []LayoutEntry[W] {
	screens := u.Screens()
	out := make([]LayoutEntry[W], 0, len(screens))
	for _, screen := range screens {
		windows := screen.Workspace.Windows.ToSlice()
		rects := tileStack(screen.Output.Rect, windows, screen.Workspace.Windows.Focus())
		for i, wr := range rects {
			if r, ok := u.Floating(wr.Window); ok {
				rects[i].Rect = r.Translate(screen.Output.Rect.Origin)
			}
		}
		out = append(out, LayoutEntry[W]{Output: screen.Output, Windows: rects})
	}
	return out
}

// tileStack computes the vertical-stack-with-master tiling of windows over
// screenRect. focus names the master window; if nil or not found among
// windows, the first window is treated as master.
func tileStack[W comparable](screenRect Rect, windows []W, focus *W) []WindowRect[W] {
	if len(windows) == 0 {
		return nil
	}
	if len(windows) == 1 {
		return []WindowRect[W]{{Rect: screenRect, Window: windows[0]}}
	}

	masterIdx := 0
	if focus != nil {
		for i, w := range windows {
			if w == *focus {
				masterIdx = i
				break
			}
		}
	}
	master := windows[masterIdx]
	stack := make([]W, 0, len(windows)-1)
	stack = append(stack, windows[:masterIdx]...)
	stack = append(stack, windows[masterIdx+1:]...)

	left, right := splitVertical(screenRect)

	out := make([]WindowRect[W], 0, len(windows))
	out = append(out, WindowRect[W]{Rect: left, Window: master})
	out = append(out, stackHorizontalBands(right, stack)...)
	return out
}

// splitVertical splits r into a left half and a right half, left getting
// the floor half-width and right the remainder.
func splitVertical(r Rect) (left, right Rect) {
	leftW := r.Size.W / 2
	rightW := r.Size.W - leftW
	left = NewRect(r.Origin.X, r.Origin.Y, leftW, r.Size.H)
	right = NewRect(r.Origin.X+int32(leftW), r.Origin.Y, rightW, r.Size.H)
	return left, right
}

// stackHorizontalBands splits r into len(windows) equal-height horizontal
// bands (the last band absorbing any remainder) and pairs each with its
// window, in order.
func stackHorizontalBands[W any](r Rect, windows []W) []WindowRect[W] {
	n := uint32(len(windows))
	if n == 0 {
		return nil
	}
	bandH := r.Size.H / n
	out := make([]WindowRect[W], n)
	y := r.Origin.Y
	for i, w := range windows {
		h := bandH
		if uint32(i) == n-1 {
			h = r.Size.H - bandH*(n-1)
		}
		out[i] = WindowRect[W]{Rect: NewRect(r.Origin.X, y, r.Size.W, h), Window: w}
		y += int32(h)
	}
	return out
}
