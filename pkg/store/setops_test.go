package store

import "testing"

func buildSetOpsFixtures(t *testing.T) (a, b *Store[string, string]) {
	t.Helper()
	a = NewMemoryStore[string, string](concatMerge, concatMerge)
	b = NewMemoryStore[string, string](concatMerge, concatMerge)

	shared := Triple{Sub: mkNodeID(1), Pred: mkNodeID(9), Obj: mkNodeID(2)}
	onlyA := Triple{Sub: mkNodeID(3), Pred: mkNodeID(9), Obj: mkNodeID(4)}
	onlyB := Triple{Sub: mkNodeID(5), Pred: mkNodeID(9), Obj: mkNodeID(6)}

	if err := a.InsertNode(mkNodeID(1), "a1"); err != nil {
		t.Fatal(err)
	}
	if err := a.InsertEdge(shared, "a-shared"); err != nil {
		t.Fatal(err)
	}
	if err := a.InsertEdge(onlyA, "a-only"); err != nil {
		t.Fatal(err)
	}

	if err := b.InsertNode(mkNodeID(1), "b1"); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertEdge(shared, "b-shared"); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertEdge(onlyB, "b-only"); err != nil {
		t.Fatal(err)
	}
	return a, b
}

func tripleSet(t *testing.T, s *Store[string, string]) map[Triple]string {
	t.Helper()
	out := make(map[Triple]string)
	for e, err := range s.IterEdges(SPO) {
		if err != nil {
			t.Fatal(err)
		}
		out[e.Triple] = e.Props
	}
	return out
}

func TestUnion(t *testing.T) {
	a, b := buildSetOpsFixtures(t)
	u, err := a.Union(b)
	if err != nil {
		t.Fatal(err)
	}
	edges := tripleSet(t, u)
	if len(edges) != 3 {
		t.Fatalf("union has %d edges, want 3: %+v", len(edges), edges)
	}
	shared := Triple{Sub: mkNodeID(1), Pred: mkNodeID(9), Obj: mkNodeID(2)}
	if edges[shared] != "a-shared"+"b-shared" {
		t.Fatalf("union shared-edge props = %q, want merged value", edges[shared])
	}
}

func TestUnionWithEmptyIsIdentity(t *testing.T) {
	a, _ := buildSetOpsFixtures(t)
	empty := NewMemoryStore[string, string](concatMerge, concatMerge)
	u, err := a.Union(empty)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tripleSet(t, u), tripleSet(t, a); len(got) != len(want) {
		t.Fatalf("union(A, empty) has %d edges, want %d (== A)", len(got), len(want))
	}
}

func TestIntersection(t *testing.T) {
	a, b := buildSetOpsFixtures(t)
	in, err := a.Intersection(b)
	if err != nil {
		t.Fatal(err)
	}
	edges := tripleSet(t, in)
	if len(edges) != 1 {
		t.Fatalf("intersection has %d edges, want 1: %+v", len(edges), edges)
	}
	shared := Triple{Sub: mkNodeID(1), Pred: mkNodeID(9), Obj: mkNodeID(2)}
	if edges[shared] != "a-shared"+"b-shared" {
		t.Fatalf("intersection props = %q, want merged value", edges[shared])
	}
}

func TestIntersectionWithSelfIsIdentity(t *testing.T) {
	a, _ := buildSetOpsFixtures(t)
	in, err := a.Intersection(a)
	if err != nil {
		t.Fatal(err)
	}
	got, want := tripleSet(t, in), tripleSet(t, a)
	if len(got) != len(want) {
		t.Fatalf("intersection(A, A) has %d edges, want %d (== A)", len(got), len(want))
	}
}

func TestDifference(t *testing.T) {
	a, b := buildSetOpsFixtures(t)
	diff, err := a.Difference(b)
	if err != nil {
		t.Fatal(err)
	}
	edges := tripleSet(t, diff)
	onlyA := Triple{Sub: mkNodeID(3), Pred: mkNodeID(9), Obj: mkNodeID(4)}
	if len(edges) != 1 || edges[onlyA] != "a-only" {
		t.Fatalf("difference = %+v, want single edge %+v/\"a-only\"", edges, onlyA)
	}
}

func TestDifferenceWithSelfIsEmpty(t *testing.T) {
	a, _ := buildSetOpsFixtures(t)
	diff, err := a.Difference(a)
	if err != nil {
		t.Fatal(err)
	}
	if edges := tripleSet(t, diff); len(edges) != 0 {
		t.Fatalf("difference(A, A) = %+v, want empty", edges)
	}
}

// TestSymmetricDifferenceEqualsUnionOfDifferences checks P7:
// symmetric_difference(A,B) = union(difference(A,B), difference(B,A)).
func TestSymmetricDifferenceEqualsUnionOfDifferences(t *testing.T) {
	a, b := buildSetOpsFixtures(t)
	sym, err := a.SymmetricDifference(b)
	if err != nil {
		t.Fatal(err)
	}
	diffAB, err := a.Difference(b)
	if err != nil {
		t.Fatal(err)
	}
	diffBA, err := b.Difference(a)
	if err != nil {
		t.Fatal(err)
	}
	unionOfDiffs, err := diffAB.Union(diffBA)
	if err != nil {
		t.Fatal(err)
	}

	symEdges := tripleSet(t, sym)
	wantEdges := tripleSet(t, unionOfDiffs)
	if len(symEdges) != len(wantEdges) {
		t.Fatalf("symmetric_difference has %d edges, union-of-differences has %d", len(symEdges), len(wantEdges))
	}
	for tr, props := range wantEdges {
		if symEdges[tr] != props {
			t.Fatalf("edge %+v: symmetric_difference=%q, union-of-differences=%q", tr, symEdges[tr], props)
		}
	}
}

func TestSetOpsDoNotMutateInputs(t *testing.T) {
	a, b := buildSetOpsFixtures(t)
	aBefore := tripleSet(t, a)
	bBefore := tripleSet(t, b)

	if _, err := a.Union(b); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Intersection(b); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Difference(b); err != nil {
		t.Fatal(err)
	}
	if _, err := a.SymmetricDifference(b); err != nil {
		t.Fatal(err)
	}

	if got := tripleSet(t, a); len(got) != len(aBefore) {
		t.Fatalf("A mutated by set ops: before=%d after=%d", len(aBefore), len(got))
	}
	if got := tripleSet(t, b); len(got) != len(bBefore) {
		t.Fatalf("B mutated by set ops: before=%d after=%d", len(bBefore), len(got))
	}
}
