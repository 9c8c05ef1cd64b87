package store

import "testing"

// TestExtendLastWriterWins mirrors spec.md §8 seed scenario 5.
func TestExtendLastWriterWins(t *testing.T) {
	left := newTestStore()
	right := newTestStore()

	n1, n2, n3 := mkNodeID(1), mkNodeID(2), mkNodeID(3)
	e := mkNodeID(9)

	if err := left.InsertNodes(map[NodeID]string{n1: "a", n2: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := left.InsertEdge(Triple{Sub: n1, Pred: e, Obj: n2}, "1"); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertNodes(map[NodeID]string{n3: "c", n1: "d"}); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertEdge(Triple{Sub: n3, Pred: e, Obj: n1}, "2"); err != nil {
		t.Fatal(err)
	}

	if err := left.Extend(right); err != nil {
		t.Fatal(err)
	}

	wantNodes := map[NodeID]string{n1: "d", n2: "b", n3: "c"}
	for id, want := range wantNodes {
		props, ok, err := left.backend.getNode(id)
		if err != nil || !ok || props != want {
			t.Fatalf("node %v = %q (ok=%v, err=%v), want %q", id, props, ok, err, want)
		}
	}

	edges := collectEdges(t, left, SPO)
	if len(edges) != 2 {
		t.Fatalf("got %d edges after extend, want 2: %+v", len(edges), edges)
	}
	byTriple := make(map[Triple]string)
	for _, e := range edges {
		byTriple[e.Triple] = e.Props
	}
	if byTriple[Triple{Sub: n1, Pred: mkNodeID(9), Obj: n2}] != "1" {
		t.Fatalf("edge (n1,e,n2) lost its props after extend: %+v", byTriple)
	}
	if byTriple[Triple{Sub: n3, Pred: mkNodeID(9), Obj: n1}] != "2" {
		t.Fatalf("edge (n3,e,n1) lost its props after extend: %+v", byTriple)
	}
}

func TestExtendDisjointIsAdditive(t *testing.T) {
	left := newTestStore()
	right := newTestStore()
	if err := left.InsertNode(mkNodeID(1), "a"); err != nil {
		t.Fatal(err)
	}
	if err := left.InsertEdge(Triple{Sub: mkNodeID(1), Pred: mkNodeID(2), Obj: mkNodeID(3)}, "x"); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertNode(mkNodeID(4), "b"); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertEdge(Triple{Sub: mkNodeID(4), Pred: mkNodeID(5), Obj: mkNodeID(6)}, "y"); err != nil {
		t.Fatal(err)
	}

	if err := left.Extend(right); err != nil {
		t.Fatal(err)
	}
	stats, err := left.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.NodeCount != 2 || stats.EdgeCount != 2 {
		t.Fatalf("Stats() after disjoint extend = %+v, want {2 2}", stats)
	}
}

func concatMerge(self, other string) string { return self + other }

// TestMergeUsesMergeFunc exercises the user-supplied merge operation on
// both node and edge collisions, matching spec.md §4.F.
func TestMergeUsesMergeFunc(t *testing.T) {
	left := NewMemoryStore[string, string](concatMerge, concatMerge)
	right := NewMemoryStore[string, string](concatMerge, concatMerge)

	n1, n2 := mkNodeID(1), mkNodeID(2)
	tr := Triple{Sub: n1, Pred: mkNodeID(9), Obj: n2}

	if err := left.InsertNode(n1, "a"); err != nil {
		t.Fatal(err)
	}
	if err := left.InsertEdge(tr, "x"); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertNode(n1, "b"); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertEdge(tr, "y"); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertNode(n2, "only-right"); err != nil {
		t.Fatal(err)
	}

	if err := left.Merge(right); err != nil {
		t.Fatal(err)
	}

	props, ok, err := left.backend.getNode(n1)
	if err != nil || !ok || props != "ab" {
		t.Fatalf("merged node n1 = %q (ok=%v, err=%v), want \"ab\"", props, ok, err)
	}
	n2Props, ok, err := left.backend.getNode(n2)
	if err != nil || !ok || n2Props != "only-right" {
		t.Fatalf("merged node n2 = %q (ok=%v, err=%v), want it moved in from right", n2Props, ok, err)
	}
	edges := collectEdges(t, left, SPO)
	if len(edges) != 1 || edges[0].Props != "xy" {
		t.Fatalf("merged edge props = %+v, want single edge \"xy\"", edges)
	}
}

// TestMergeUnitType mirrors spec.md §8 seed scenario 6: with the trivial
// unit property type, merge degenerates to a set union with no conflict.
func TestMergeUnitType(t *testing.T) {
	type unit = struct{}
	unitMerge := func(_, _ unit) unit { return unit{} }
	left := NewMemoryStore[unit, unit](unitMerge, unitMerge)
	right := NewMemoryStore[unit, unit](unitMerge, unitMerge)

	n1, n2 := mkNodeID(1), mkNodeID(2)
	if err := left.InsertNode(n1, unit{}); err != nil {
		t.Fatal(err)
	}
	if err := right.InsertNode(n2, unit{}); err != nil {
		t.Fatal(err)
	}
	if err := left.Merge(right); err != nil {
		t.Fatal(err)
	}
	stats, err := left.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.NodeCount != 2 {
		t.Fatalf("Stats().NodeCount = %d, want 2", stats.NodeCount)
	}
}
