package collections

import "testing"

func TestSetAddContains(t *testing.T) {
	set := NewSet(1, 2)
	set.Add(3)
	set.Add(2)

	if len(set) != 3 {
		t.Errorf("len = %d, want 3", len(set))
	}
	for value, want := range map[int]bool{1: true, 2: true, 3: true, 42: false} {
		if got := set.Contains(value); got != want {
			t.Errorf("Contains(%d) = %v, want %v", value, got, want)
		}
	}

	var empty Set[int]
	if empty.Contains(1) {
		t.Error("nil set should contain nothing")
	}
}

func TestSetDifference(t *testing.T) {
	difference := NewSet(1, 2, 3).Difference(NewSet(2, 4))
	if !difference.Equal(NewSet(1, 3)) {
		t.Errorf("Difference = %v, want {1, 3}", difference)
	}
}

func TestSetIntersectionEx(t *testing.T) {
	tests := []struct {
		name       string
		set, other Set[string]
		want       Set[string]
		isSubset   bool
	}{
		{"subset", NewSet("a", "b"), NewSet("a", "b", "c"), NewSet("a", "b"), true},
		{"equal", NewSet("a"), NewSet("a"), NewSet("a"), true},
		{"overlap", NewSet("a", "z"), NewSet("a", "b"), NewSet("a"), false},
		{"disjoint", NewSet("x"), NewSet("y"), NewSet[string](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isSubset := tt.set.IntersectionEx(tt.other)
			if !got.Equal(tt.want) {
				t.Errorf("intersection = %v, want %v", got, tt.want)
			}
			if isSubset != tt.isSubset {
				t.Errorf("isSubset = %v, want %v", isSubset, tt.isSubset)
			}
		})
	}
}
