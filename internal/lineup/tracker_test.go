package lineup

import "testing"

func TestLineupSetEqual(t *testing.T) {
	a := NewLineupSet(1, 2, 3, 4, 5)
	b := NewLineupSet(5, 4, 3, 2, 1)
	if !a.Equal(b) {
		t.Fatal("order must not affect equality")
	}
	if a.Equal(NewLineupSet(1, 2, 3, 4, 6)) {
		t.Fatal("sets with different members reported equal")
	}
	if a.Equal(NewLineupSet(1, 2, 3, 4)) {
		t.Fatal("sets of different size reported equal")
	}
}

func TestLineupSetComplete(t *testing.T) {
	if !NewLineupSet(1, 2, 3, 4, 5).Complete() {
		t.Fatal("five players should be complete")
	}
	if NewLineupSet(1, 2, 3, 4).Complete() {
		t.Fatal("four players should not be complete")
	}
	if NewLineupSet(1, 2, 3, 4, 5, 6).Complete() {
		t.Fatal("six players should not be complete")
	}
}

func TestTrackerApply(t *testing.T) {
	tr := NewTracker([]PlayerID{1, 2, 3, 4, 5})

	tr.Apply(SubOut, 3)
	tr.Apply(SubIn, 9)
	if !tr.OnCourt().Equal(NewLineupSet(1, 2, 4, 5, 9)) {
		t.Fatalf("after swap, on court = %v", tr.OnCourt())
	}

	// Duplicate "in" and an "out" for an absent player are no-ops.
	tr.Apply(SubIn, 9)
	tr.Apply(SubOut, 3)
	if !tr.OnCourt().Equal(NewLineupSet(1, 2, 4, 5, 9)) {
		t.Fatalf("no-op events changed lineup: %v", tr.OnCourt())
	}
}

func TestTrackerTransientSizes(t *testing.T) {
	tr := NewTracker([]PlayerID{1, 2, 3, 4, 5})

	// Mid multi-swap the set transiently holds six players.
	tr.Apply(SubIn, 6)
	if tr.OnCourt().Complete() {
		t.Fatal("six on court reported complete")
	}
	tr.Apply(SubOut, 1)
	if !tr.OnCourt().Complete() {
		t.Fatal("swap should settle back to five")
	}
}

func TestLineupSetClone(t *testing.T) {
	a := NewLineupSet(1, 2, 3, 4, 5)
	b := a.Clone()
	delete(b, 1)
	if _, ok := a[1]; !ok {
		t.Fatal("mutating the clone changed the original")
	}
}
