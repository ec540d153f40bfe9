package versions

import (
	"reflect"
	"testing"
)

func TestAggregateUnion(t *testing.T) {
	existing := []VersionLists{
		{ID: "v1", Loaders: []string{"fabric"}, GameVersions: []string{"1.20.1"}},
		{ID: "v2", Loaders: []string{"forge"}, GameVersions: []string{"1.19.4"}},
	}

	loaders, gameVersions := Aggregate(existing, nil, []string{"quilt"}, []string{"1.20.1", "1.21"})

	wantLoaders := []string{"fabric", "forge", "quilt"}
	if !reflect.DeepEqual(loaders, wantLoaders) {
		t.Errorf("Aggregate() loaders = %v, want %v", loaders, wantLoaders)
	}
	wantGameVersions := []string{"1.19.4", "1.20.1", "1.21"}
	if !reflect.DeepEqual(gameVersions, wantGameVersions) {
		t.Errorf("Aggregate() gameVersions = %v, want %v", gameVersions, wantGameVersions)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	existing := []VersionLists{
		{ID: "v1", Loaders: []string{"fabric", "forge"}, GameVersions: []string{"1.20", "1.9"}},
	}

	l1, g1 := Aggregate(existing, nil, nil, nil)
	l2, g2 := Aggregate(existing, nil, nil, nil)

	if !reflect.DeepEqual(l1, l2) || !reflect.DeepEqual(g1, g2) {
		t.Errorf("Aggregate() not idempotent: (%v,%v) vs (%v,%v)", l1, g1, l2, g2)
	}
}

func TestAggregateSemanticOrdering(t *testing.T) {
	_, gameVersions := Aggregate(nil, nil, nil, []string{"1.10", "1.9", "1.2"})

	want := []string{"1.2", "1.9", "1.10"}
	if !reflect.DeepEqual(gameVersions, want) {
		t.Errorf("Aggregate() gameVersions = %v, want %v", gameVersions, want)
	}
}

func TestAggregateDropsUnknownLoaders(t *testing.T) {
	existing := []VersionLists{
		{ID: "v1", Loaders: []string{"fabric", "risugami"}, GameVersions: []string{"1.20"}},
	}

	loaders, _ := Aggregate(existing, nil, []string{"not-a-loader"}, nil)

	want := []string{"fabric"}
	if !reflect.DeepEqual(loaders, want) {
		t.Errorf("Aggregate() loaders = %v, want %v", loaders, want)
	}
}

func TestAggregateExcludesVersions(t *testing.T) {
	existing := []VersionLists{
		{ID: "v1", Loaders: []string{"fabric"}, GameVersions: []string{"1.20.1"}},
		{ID: "v2", Loaders: []string{"forge"}, GameVersions: []string{"1.19.4"}},
	}

	loaders, gameVersions := Aggregate(existing, map[string]bool{"v1": true}, nil, nil)

	if !reflect.DeepEqual(loaders, []string{"forge"}) {
		t.Errorf("Aggregate() loaders = %v, want [forge]", loaders)
	}
	if !reflect.DeepEqual(gameVersions, []string{"1.19.4"}) {
		t.Errorf("Aggregate() gameVersions = %v, want [1.19.4]", gameVersions)
	}
}

func TestCompareGameVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.9", "1.10", -1},
		{"1.10", "1.9", 1},
		{"1.20.1", "1.20.1", 0},
		{"1.20", "1.20.1", -1},
		{"1.2", "1.10", -1},
		{"1.20", "1.20-rc1", -1},
		{"1.16.5", "1.16.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			got := CompareGameVersions(tt.a, tt.b)
			if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) {
				t.Errorf("CompareGameVersions(%q, %q) = %d, want sign of %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
