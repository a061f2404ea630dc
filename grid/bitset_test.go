package grid

import "testing"

func TestBitsetSetGetCount(t *testing.T) {
	b := newBitset(100)
	for _, i := range []int{0, 7, 8, 63, 64, 99} {
		b.Set(i, true)
	}
	if got := b.Count(); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
	if !b.Get(63) || b.Get(62) {
		t.Errorf("Get mismatch around bit 63")
	}
	b.Set(7, false)
	if b.Get(7) || b.Count() != 5 {
		t.Errorf("Set(7,false) did not clear the bit")
	}
}

func TestBitsetClear(t *testing.T) {
	b := newBitset(40)
	b.Set(3, true)
	b.Set(20, true)
	b.Clear()
	if b.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", b.Count())
	}
}

func TestBitsetClone(t *testing.T) {
	b := newBitset(20)
	b.Set(5, true)
	c := b.Clone()
	c.Set(6, true)
	if b.Get(6) {
		t.Error("mutating the clone affected the original")
	}
	if !c.Get(5) {
		t.Error("clone lost a bit from the original")
	}
}

func TestPopCountMatchesSerialOverRange(t *testing.T) {
	n := 173
	b := newBitset(n)
	for i := 0; i < n; i += 3 {
		b.Set(i, true)
	}
	want := 0
	for i := 0; i < n; i++ {
		if b.Get(i) {
			want++
		}
	}
	if got := PopCount(b.bits, n); got != want {
		t.Errorf("PopCount = %d, want %d", got, want)
	}
}

// stubDriver runs ForEach sequentially but through a fixed number of
// "workers", enough to exercise PopCountParallel's chunking path without a
// real concurrent implementation.
type stubDriver struct{ workers int }

func (d stubDriver) ForEach(count int, fn func(i, workerIndex int)) {
	for i := 0; i < count; i++ {
		fn(i, i%d.workers)
	}
}
func (d stubDriver) ForEachShape(s Shape, fn func(c Coord, workerIndex int)) {
	i := 0
	s.Iterate(func(c Coord) bool {
		fn(c, i%d.workers)
		i++
		return false
	})
}
func (d stubDriver) NumWorkers() int { return d.workers }

func TestPopCountParallelMatchesSerial(t *testing.T) {
	n := 250
	b := newBitset(n)
	for i := 0; i < n; i += 5 {
		b.Set(i, true)
	}
	serial := PopCount(b.bits, n)
	parallel := PopCountParallel(b.bits, n, stubDriver{workers: 4})
	if serial != parallel {
		t.Errorf("PopCountParallel = %d, want %d (serial)", parallel, serial)
	}
}
