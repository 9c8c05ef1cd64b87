package store

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestBadgerStore(t *testing.T) (*Store[map[string]any, map[string]any], *badger.DB) {
	t.Helper()
	db, err := OpenBadger(BadgerOptions{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewBadgerStore[map[string]any, map[string]any](
		db, JSONCodec[map[string]any](), JSONCodec[map[string]any](),
		LastWriterWins[map[string]any](), LastWriterWins[map[string]any](),
	)
	return s, db
}

func TestBadgerInsertAndQueryRoundTrip(t *testing.T) {
	s, _ := openTestBadgerStore(t)
	n1, n2 := mkNodeID(1), mkNodeID(2)
	pred := mkNodeID(9)
	tr := Triple{Sub: n1, Pred: pred, Obj: n2}

	require.NoError(t, s.InsertNode(n1, map[string]any{"name": "alice"}))
	require.NoError(t, s.InsertNode(n2, map[string]any{"name": "bob"}))
	require.NoError(t, s.InsertEdge(tr, map[string]any{"weight": float64(3)}))

	res, err := s.Query(QueryS(n1))
	require.NoError(t, err)
	require.Len(t, res.Edges, 1)
	require.Equal(t, tr, res.Edges[0].Triple)
	require.Equal(t, float64(3), res.Edges[0].Props["weight"])

	nres, err := s.Query(QueryNodeProperty(n1, n2))
	require.NoError(t, err)
	require.Equal(t, "alice", nres.NodeProps[n1]["name"])
	require.Equal(t, "bob", nres.NodeProps[n2]["name"])
}

func TestBadgerRemoveNodeCascades(t *testing.T) {
	s, _ := openTestBadgerStore(t)
	n1, n2 := mkNodeID(1), mkNodeID(2)
	tr := Triple{Sub: n1, Pred: mkNodeID(9), Obj: n2}
	require.NoError(t, s.InsertEdge(tr, map[string]any{"w": float64(1)}))
	require.NoError(t, s.RemoveNode(n1))

	var edges []EdgeEntry[map[string]any]
	for e, err := range s.IterEdges(SPO) {
		require.NoError(t, err)
		edges = append(edges, e)
	}
	require.Empty(t, edges)
}

func TestBadgerBackendSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenBadger(BadgerOptions{DataDir: dir})
	require.NoError(t, err)

	s := NewBadgerStore[string, string](db, JSONCodec[string](), JSONCodec[string](), nil, nil)
	tr := Triple{Sub: mkNodeID(1), Pred: mkNodeID(2), Obj: mkNodeID(3)}
	require.NoError(t, s.InsertEdge(tr, "x"))
	require.NoError(t, db.Close())

	db2, err := OpenBadger(BadgerOptions{DataDir: dir})
	require.NoError(t, err)
	defer db2.Close()
	s2 := NewBadgerStore[string, string](db2, JSONCodec[string](), JSONCodec[string](), nil, nil)

	res, err := s2.Query(QueryEdgeProperty(tr))
	require.NoError(t, err)
	require.Equal(t, "x", res.EdgeProps[tr])
}

func TestBadgerCachedBackendMatchesUncached(t *testing.T) {
	db, err := OpenBadger(BadgerOptions{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer db.Close()

	s, err := NewBadgerStoreCached[string, string](
		db, JSONCodec[string](), JSONCodec[string](), nil, nil, DefaultCacheOptions(),
	)
	require.NoError(t, err)
	defer s.Close()

	n := mkNodeID(1)
	require.NoError(t, s.InsertNode(n, "first"))
	res, err := s.Query(QueryNodeProperty(n))
	require.NoError(t, err)
	require.Equal(t, "first", res.NodeProps[n])

	// A write must invalidate the cached read.
	require.NoError(t, s.InsertNode(n, "second"))
	res, err = s.Query(QueryNodeProperty(n))
	require.NoError(t, err)
	require.Equal(t, "second", res.NodeProps[n])
}
