package pointset

import (
	"testing"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

func TestAddEvictsOldest(t *testing.T) {
	set := New(5)
	for i := 0; i <= 6; i++ {
		set.Add(paint.Pos(float64(i), float64(i)))
	}
	if set.Len() != 5 {
		t.Fatalf("len = %d, want 5", set.Len())
	}
	if got := set.At(0); got != paint.Pos(2, 2) {
		t.Fatalf("oldest = %v, want (2,2)", got)
	}
	if got := set.At(set.Len() - 1); got != paint.Pos(6, 6) {
		t.Fatalf("newest = %v, want (6,6)", got)
	}
}

func TestLengthIsMinOfInsertsAndCapacity(t *testing.T) {
	for _, capacity := range []int{1, 3, 8} {
		for n := 0; n < 20; n++ {
			set := New(capacity)
			for i := 0; i < n; i++ {
				set.Add(paint.Pos(float64(i), 0))
			}
			want := n
			if want > capacity {
				want = capacity
			}
			if set.Len() != want {
				t.Fatalf("cap=%d n=%d: len = %d, want %d", capacity, n, set.Len(), want)
			}
			if n > capacity {
				// the (n-C+1)-th inserted point has index n-C
				if got := set.At(0).X; got != float64(n-capacity) {
					t.Fatalf("cap=%d n=%d: oldest = %v, want %d", capacity, n, got, n-capacity)
				}
			}
		}
	}
}

func TestDropOnEmptyIsNoop(t *testing.T) {
	set := New(3)
	set.Drop()
	set.Drop()
	if set.Len() != 0 {
		t.Fatalf("len = %d after drops on empty set", set.Len())
	}
	set.Add(paint.Pos(1, 1))
	if set.Len() != 1 || set.At(0) != paint.Pos(1, 1) {
		t.Fatalf("set unusable after empty drops: %v", set.Points())
	}
}

func TestDropRemovesOldestFirst(t *testing.T) {
	set := New(4)
	for i := 0; i < 6; i++ {
		set.Add(paint.Pos(float64(i), 0))
	}
	set.Drop()
	want := []float64{3, 4, 5}
	got := set.Points()
	if len(got) != len(want) {
		t.Fatalf("points = %v", got)
	}
	for i := range want {
		if got[i].X != want[i] {
			t.Fatalf("points[%d] = %v, want %v", i, got[i].X, want[i])
		}
	}
}

func TestDrainOnePerStep(t *testing.T) {
	set := New(5)
	for i := 0; i < 3; i++ {
		set.Add(paint.Pos(float64(i), 0))
	}
	for step := 1; step <= 4; step++ {
		if set.Len() > 0 {
			set.Drop()
		}
		want := 3 - step
		if want < 0 {
			want = 0
		}
		if set.Len() != want {
			t.Fatalf("step %d: len = %d, want %d", step, set.Len(), want)
		}
	}
}

func TestAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(2).At(0)
}

func TestNewDefaultsCapacity(t *testing.T) {
	if got := New(0).Cap(); got != DefaultCapacity {
		t.Fatalf("cap = %d, want %d", got, DefaultCapacity)
	}
}
