package corewl

// V2 is a 2D integer vector used for offsets, buffer positions, and sizes
// throughout the core.
type V2 struct {
	X, Y int32
}

// Add returns the componentwise sum of v and other.
func (v V2) Add(other V2) V2 {
	return V2{v.X + other.X, v.Y + other.Y}
}

// Size is an unsigned width/height pair.
type Size struct {
	W, H uint32
}

// Rect is an axis-aligned rectangle with coordinates inclusive on both ends:
// a rectangle of Size (w, h) at Origin (0, 0) has its bottom-right corner at
// (w-1, h-1). The next free coordinate past the rectangle along an axis is
// Origin+Size on that axis.
type Rect struct {
	Origin V2
	Size   Size
}

// NewRect builds a Rect from an origin and a size.
func NewRect(x, y int32, w, h uint32) Rect {
	return Rect{Origin: V2{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// BottomRight returns the inclusive bottom-right corner of r.
func (r Rect) BottomRight() V2 {
	return V2{
		X: r.Origin.X + int32(r.Size.W) - 1,
		Y: r.Origin.Y + int32(r.Size.H) - 1,
	}
}

// Translate returns r shifted by d.
func (r Rect) Translate(d V2) Rect {
	return Rect{Origin: r.Origin.Add(d), Size: r.Size}
}

// BufferFormat enumerates the pixel formats the core negotiates with
// clients. Trimmed to the handful a compositor core actually cares about;
// the full SHM format table belongs to the shared-memory platform wrapper,
// out of scope here.
type BufferFormat uint32

const (
	// FormatArgb8888 is 32-bit ARGB, premultiplied, the mandatory Wayland format.
	FormatArgb8888 BufferFormat = iota
	// FormatXrgb8888 is 32-bit XRGB (no alpha channel).
	FormatXrgb8888
)

// OutputTransform enumerates output orientation/mirroring, bit-exact with
// the Wayland wl_output.transform enum.
type OutputTransform uint8

const (
	TransformNormal OutputTransform = iota
	TransformRot90
	TransformRot180
	TransformRot270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Portrait reports whether t swaps width and height (the four 90/270
// rotations, flipped or not).
func (t OutputTransform) Portrait() bool {
	switch t {
	case TransformRot90, TransformRot270, TransformFlipped90, TransformFlipped270:
		return true
	default:
		return false
	}
}
