package corewl

import (
	"reflect"
	"testing"
)

func TestZipperInsertBeforeMovesCursor(t *testing.T) {
	z := ZipperFromSlice([]int{1, 2, 3})
	z.InsertBefore(0)
	if got := *z.Focus(); got != 0 {
		t.Errorf("Focus() = %d, want 0", got)
	}
	if got := z.ToSlice(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("ToSlice() = %v, want [0 1 2 3]", got)
	}
}

func TestZipperDeleteFocusMovesToNext(t *testing.T) {
	z := ZipperFromSlice([]int{1, 2, 3})
	z.DeleteFocus()
	if got := *z.Focus(); got != 2 {
		t.Errorf("Focus() = %d, want 2", got)
	}
	if got := z.ToSlice(); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("ToSlice() = %v, want [2 3]", got)
	}
}

func TestZipperDeleteFocusMovesToPrevWhenLast(t *testing.T) {
	z := ZipperFromSlice([]int{1, 2, 3})
	z.MoveNext()
	z.MoveNext()
	z.DeleteFocus()
	if got := *z.Focus(); got != 2 {
		t.Errorf("Focus() = %d, want 2", got)
	}
}

func TestZipperDeleteLastElementLeavesEmptyFocus(t *testing.T) {
	z := ZipperFromSlice([]int{1})
	z.DeleteFocus()
	if z.Focus() != nil {
		t.Errorf("Focus() = %v, want nil", z.Focus())
	}
	if !z.Empty() {
		t.Error("Empty() = false after deleting the only element")
	}
}

func TestZipperMoveNextPrevRoundTrip(t *testing.T) {
	z := ZipperFromSlice([]int{1, 2, 3})
	z.MoveNext()
	z.MoveNext()
	z.MovePrev()
	z.MovePrev()
	if got := *z.Focus(); got != 1 {
		t.Errorf("Focus() = %d, want 1 after round trip", got)
	}
	if got := z.ToSlice(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("ToSlice() = %v, want [1 2 3] (order preserved)", got)
	}
}

func TestZipperDeleteMatchScans(t *testing.T) {
	z := ZipperFromSlice([]int{1, 2, 3, 4})
	ok := z.DeleteMatch(func(v int) bool { return v == 3 })
	if !ok {
		t.Fatal("DeleteMatch() = false, want true")
	}
	if got := z.ToSlice(); !reflect.DeepEqual(got, []int{1, 2, 4}) {
		t.Errorf("ToSlice() = %v, want [1 2 4]", got)
	}

	ok = z.DeleteMatch(func(v int) bool { return v == 99 })
	if ok {
		t.Error("DeleteMatch() = true for absent value, want false")
	}
}

func TestZipperEmptyFromEmptySlice(t *testing.T) {
	z := ZipperFromSlice([]int{})
	if !z.Empty() {
		t.Error("Empty() = false for empty zipper")
	}
	if z.Focus() != nil {
		t.Error("Focus() != nil on empty zipper")
	}
}

func TestZipperLen(t *testing.T) {
	z := ZipperFromSlice([]int{1, 2, 3})
	if z.Len() != 3 {
		t.Errorf("Len() = %d, want 3", z.Len())
	}
	z.InsertBefore(0)
	if z.Len() != 4 {
		t.Errorf("Len() = %d, want 4", z.Len())
	}
}
