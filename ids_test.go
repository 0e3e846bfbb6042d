package corewl

import "testing"

func TestDietAllocSmallestFree(t *testing.T) {
	d := NewDiet()
	if got := d.Alloc(); got != 0 {
		t.Fatalf("Alloc() = %d, want 0", got)
	}
	if got := d.Alloc(); got != 1 {
		t.Fatalf("Alloc() = %d, want 1", got)
	}
	if got := d.Alloc(); got != 2 {
		t.Fatalf("Alloc() = %d, want 2", got)
	}
}

func TestDietFreeThenReallocReusesId(t *testing.T) {
	d := NewDiet()
	a := d.Alloc()
	b := d.Alloc()
	_ = d.Alloc()

	d.Free(a)
	if got := d.Alloc(); got != a {
		t.Errorf("Alloc() after Free(%d) = %d, want %d reused", a, got, a)
	}
	if !d.IsAllocated(b) {
		t.Errorf("IsAllocated(%d) = false, want true (never freed)", b)
	}
}

func TestDietFreeGapInMiddleIsReused(t *testing.T) {
	d := NewDiet()
	ids := make([]uint32, 5)
	for i := range ids {
		ids[i] = d.Alloc()
	}
	d.Free(ids[2])
	if got := d.Alloc(); got != ids[2] {
		t.Errorf("Alloc() = %d, want %d (the freed middle id)", got, ids[2])
	}
}

func TestDietFreeEveryIdInMixedOrder(t *testing.T) {
	d := NewDiet()
	ids := make([]uint32, 4)
	for i := range ids {
		ids[i] = d.Alloc()
	}
	// Free every id, one at a time, in a non-monotonic order so Free must
	// exercise the split, trim-low-end, and whole-interval-removal cases.
	d.Free(ids[1])
	d.Free(ids[2])
	d.Free(ids[0])
	d.Free(ids[3])

	for _, id := range ids {
		if d.IsAllocated(id) {
			t.Errorf("IsAllocated(%d) = true after Free, want false", id)
		}
	}
	// Fully freed allocator must reallocate starting back at 0.
	if got := d.Alloc(); got != 0 {
		t.Errorf("Alloc() after freeing everything = %d, want 0", got)
	}
}

func TestDietFreeSplitsInterval(t *testing.T) {
	d := NewDiet()
	ids := make([]uint32, 5)
	for i := range ids {
		ids[i] = d.Alloc()
	}
	// Freeing an id strictly inside a single merged [0,5) interval must
	// split it into two intervals rather than corrupt the range.
	d.Free(ids[2])
	if d.IsAllocated(ids[2]) {
		t.Fatal("IsAllocated(freed middle id) = true, want false")
	}
	for _, i := range []int{0, 1, 3, 4} {
		if !d.IsAllocated(ids[i]) {
			t.Errorf("IsAllocated(%d) = false, want true (neighbor of split, unaffected)", ids[i])
		}
	}
}

func TestDietFreeUnallocatedIsNoop(t *testing.T) {
	d := NewDiet()
	d.Alloc()
	d.Free(99) // never allocated
	if d.IsAllocated(99) {
		t.Error("IsAllocated(99) = true after freeing an id that was never allocated")
	}
	if got := d.Alloc(); got != 1 {
		t.Errorf("Alloc() = %d, want 1 (Free(99) must not disturb real state)", got)
	}
}

func TestDietIsAllocatedOnEmptyAllocator(t *testing.T) {
	d := NewDiet()
	if d.IsAllocated(0) {
		t.Error("IsAllocated(0) = true on an empty Diet, want false")
	}
}
