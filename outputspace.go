package corewl

// Output is a physical display output as reported by the backend: its raw
// pixel size, integer scale, and orientation. Physical geometry decisions
// (what size/scale/transform an output actually has) belong to the backend;
// the core only maps whatever it is told into the global coordinate strip.
type Output struct {
	ID        OutputId
	Width     uint32
	Height    uint32
	Scale     int32
	Transform OutputTransform
}

// logicalSize returns the output's size after applying transform (portrait
// swap) and scale (integer division), the size actually occupied in global
// compositor space.
func (o Output) logicalSize() Size {
	w, h := o.Width, o.Height
	if o.Transform.Portrait() {
		w, h = h, w
	}
	scale := o.Scale
	if scale < 1 {
		scale = 1
	}
	return Size{W: w / uint32(scale), H: h / uint32(scale)}
}

// MappedOutput is an Output plus its rectangle in global compositor space.
type MappedOutput struct {
	Output Output
	Rect   Rect
}

// mapOutput places output's rectangle at
// [xOffset, xOffset+w-1] x [0, h-1], where (w, h) is its logical size.
func mapOutput(xOffset int32, output Output) MappedOutput {
	size := output.logicalSize()
	return MappedOutput{
		Output: output,
		Rect:   NewRect(xOffset, 0, size.W, size.H),
	}
}

// mapOutputs lays outputs left to right starting at startOffset (the first
// element of outputs gets the leftmost rectangle), then returns them with
// the rightmost output at the head of the result — the internal ordering
// convention every other Output Space operation relies on, since
// outputsRight only ever needs to read the head to find the next free X.
func mapOutputs(startOffset int32, outputs []Output) []MappedOutput {
	offset := startOffset
	result := make([]MappedOutput, len(outputs))
	for i, out := range outputs {
		mo := mapOutput(offset, out)
		result[i] = mo
		offset += int32(mo.Rect.Size.W)
	}
	for l, r := 0, len(result)-1; l < r; l, r = l+1, r-1 {
		result[l], result[r] = result[r], result[l]
	}
	return result
}

// deleteOutput removes the output with id oid from list (head-is-rightmost
// convention) and shifts every output that was to its right (i.e. appears
// earlier in list) leftward by the removed output's width to close the gap.
// Outputs to its left (later in list, already anchored at lower X) are
// untouched. Reports the new list and whether oid was found.
func deleteOutput(oid OutputId, list []MappedOutput) ([]MappedOutput, bool) {
	idx := -1
	for i, mo := range list {
		if mo.Output.ID == oid {
			idx = i
			break
		}
	}
	if idx == -1 {
		return list, false
	}
	removedWidth := int32(list[idx].Rect.Size.W)

	out := make([]MappedOutput, 0, len(list)-1)
	for _, mo := range list[:idx] {
		mo.Rect.Origin.X -= removedWidth
		out = append(out, mo)
	}
	out = append(out, list[idx+1:]...)
	return out, true
}

// outputsRight returns the X coordinate immediately past the rightmost
// mapped output, i.e. the next free X offset for mapOutputs. 0 if list is
// empty.
func outputsRight(list []MappedOutput) int32 {
	if len(list) == 0 {
		return 0
	}
	head := list[0]
	return head.Rect.Origin.X + int32(head.Rect.Size.W)
}
