package corewl

// Zipper is an ordered sequence with a distinguished "current" element,
// supporting insert-before-cursor, O(1) delete-focus, cursor movement, and
// conversion to and from a flat slice. Used by the Universe's
// workspace/screen ordering.
//
// Representation: (leftReversed, focus, right). leftReversed holds the
// elements before the cursor in reverse order, so the cursor's nearest
// neighbours are leftReversed's last element and right's first element.
type Zipper[T any] struct {
	leftReversed []T
	focus        *T
	right        []T
}

// NewZipper returns an empty zipper (cursor over nothing).
func NewZipper[T any]() *Zipper[T] {
	return &Zipper[T]{}
}

// ZipperFromSlice builds a zipper from items, with the cursor on the first
// element (or over nothing, if items is empty).
func ZipperFromSlice[T any](items []T) *Zipper[T] {
	z := &Zipper[T]{}
	if len(items) == 0 {
		return z
	}
	focus := items[0]
	z.focus = &focus
	z.right = append([]T(nil), items[1:]...)
	return z
}

// Empty reports whether the zipper holds no elements at all.
func (z *Zipper[T]) Empty() bool {
	return z.focus == nil && len(z.leftReversed) == 0 && len(z.right) == 0
}

// Focus returns a pointer to the focused element, or nil if the cursor is
// over empty space. The pointer is valid until the next mutating call.
func (z *Zipper[T]) Focus() *T {
	return z.focus
}

// InsertBefore inserts v immediately before the cursor and moves the cursor
// onto v.
func (z *Zipper[T]) InsertBefore(v T) {
	if z.focus != nil {
		z.right = append([]T{*z.focus}, z.right...)
	}
	focus := v
	z.focus = &focus
}

// DeleteFocus removes the focused element, if any. The cursor moves to the
// next element if one exists, otherwise to the previous one, otherwise over
// empty space.
func (z *Zipper[T]) DeleteFocus() {
	if z.focus == nil {
		return
	}
	if len(z.right) > 0 {
		focus := z.right[0]
		z.right = z.right[1:]
		z.focus = &focus
		return
	}
	if len(z.leftReversed) > 0 {
		n := len(z.leftReversed) - 1
		focus := z.leftReversed[n]
		z.leftReversed = z.leftReversed[:n]
		z.focus = &focus
		return
	}
	z.focus = nil
}

// MoveNext moves the cursor one position to the right. No-op if already at
// the last element or over empty space.
func (z *Zipper[T]) MoveNext() {
	if z.focus == nil || len(z.right) == 0 {
		return
	}
	z.leftReversed = append(z.leftReversed, *z.focus)
	focus := z.right[0]
	z.right = z.right[1:]
	z.focus = &focus
}

// MovePrev moves the cursor one position to the left. No-op if already at
// the first element or over empty space.
func (z *Zipper[T]) MovePrev() {
	if z.focus == nil || len(z.leftReversed) == 0 {
		return
	}
	z.right = append([]T{*z.focus}, z.right...)
	n := len(z.leftReversed) - 1
	focus := z.leftReversed[n]
	z.leftReversed = z.leftReversed[:n]
	z.focus = &focus
}

// MoveToMatch scans the whole zipper for the first element matching pred
// and moves the cursor there. Reports whether a match was found.
func (z *Zipper[T]) MoveToMatch(pred func(T) bool) bool {
	for _, v := range z.ToSlice() {
		if pred(v) {
			return z.moveTo(v, pred)
		}
	}
	return false
}

// moveTo rebuilds the zipper with the cursor on the first element matching
// pred, preserving overall order. Used internally by MoveToMatch and
// DeleteMatch once the match is known to exist.
func (z *Zipper[T]) moveTo(_ T, pred func(T) bool) bool {
	items := z.ToSlice()
	for i, v := range items {
		if pred(v) {
			z.leftReversed = reverseCopy(items[:i])
			focus := v
			z.focus = &focus
			z.right = append([]T(nil), items[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteMatch removes the focused element if it matches pred, otherwise the
// first element in document order that matches pred. Reports whether an
// element was removed.
func (z *Zipper[T]) DeleteMatch(pred func(T) bool) bool {
	if z.focus != nil && pred(*z.focus) {
		z.DeleteFocus()
		return true
	}
	if !z.MoveToMatch(pred) {
		return false
	}
	z.DeleteFocus()
	return true
}

// ToSlice flattens the zipper into document order, regardless of cursor
// position.
func (z *Zipper[T]) ToSlice() []T {
	out := make([]T, 0, len(z.leftReversed)+len(z.right)+1)
	for i := len(z.leftReversed) - 1; i >= 0; i-- {
		out = append(out, z.leftReversed[i])
	}
	if z.focus != nil {
		out = append(out, *z.focus)
	}
	out = append(out, z.right...)
	return out
}

// Len returns the total number of elements in the zipper.
func (z *Zipper[T]) Len() int {
	n := len(z.leftReversed) + len(z.right)
	if z.focus != nil {
		n++
	}
	return n
}

func reverseCopy[T any](items []T) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return out
}
