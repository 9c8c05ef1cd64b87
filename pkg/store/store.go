package store

import (
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// Store is the public façade over one storage back end (in-memory or
// Badger-backed persistent), implementing the insertion/removal,
// iteration, query, merge/extend, and set-ops engines once against the
// backend contract (spec.md §9: "capability contracts... implementations
// chosen at construction time").
//
// NP and EP are the caller's node- and edge-property types. A Store is not
// safe for concurrent mutation (spec.md §5), and nothing enforces this:
// the in-memory backend's mutex only guards each individual map access,
// and the persistent backend inherits whatever concurrency guarantees the
// caller's use of the shared *badger.DB grants.
type Store[NP, EP any] struct {
	backend backend[NP, EP]
	ids     *IDGenerator
	mergeN  MergeFunc[NP]
	mergeE  MergeFunc[EP]
}

// NewMemoryStore creates an empty in-memory store. mergeNode/mergeEdge are
// used by Merge and the set-ops engine; pass nil for either to make Merge,
// Union and Intersection fall back to last-writer-wins on that dimension
// (Extend never needs them).
func NewMemoryStore[NP, EP any](mergeNode MergeFunc[NP], mergeEdge MergeFunc[EP]) *Store[NP, EP] {
	return &Store[NP, EP]{
		backend: newMemoryBackend[NP, EP](),
		ids:     NewIDGenerator(),
		mergeN:  mergeNode,
		mergeE:  mergeEdge,
	}
}

// NewBadgerStore opens the five named trees (as key-prefix namespaces, see
// badger.go) on an already-open *badger.DB. The caller owns db and must
// Close it after the Store is no longer in use; Store never closes it and
// never flushes on its own Close (spec.md §5).
func NewBadgerStore[NP, EP any](db *badger.DB, nodeCodec Codec[NP], edgeCodec Codec[EP], mergeNode MergeFunc[NP], mergeEdge MergeFunc[EP]) *Store[NP, EP] {
	return &Store[NP, EP]{
		backend: newBadgerBackend[NP, EP](db, nodeCodec, edgeCodec),
		ids:     NewIDGenerator(),
		mergeN:  mergeNode,
		mergeE:  mergeEdge,
	}
}

// NewBadgerStoreCached is NewBadgerStore with a read-through property
// cache (cache.go, ristretto-backed) placed in front of node/edge-property
// lookups. Off by default (use NewBadgerStore); opt in when profiling
// shows repeated decode cost on hot keys. Disabled or enabled, I1-I5 hold
// identically — the cache never changes what a read returns, only how
// fast.
func NewBadgerStoreCached[NP, EP any](db *badger.DB, nodeCodec Codec[NP], edgeCodec Codec[EP], mergeNode MergeFunc[NP], mergeEdge MergeFunc[EP], cacheOpts CacheOptions) (*Store[NP, EP], error) {
	cached, err := withCache[NP, EP](newBadgerBackend[NP, EP](db, nodeCodec, edgeCodec), cacheOpts)
	if err != nil {
		return nil, err
	}
	return &Store[NP, EP]{
		backend: cached,
		ids:     NewIDGenerator(),
		mergeN:  mergeNode,
		mergeE:  mergeEdge,
	}, nil
}

// Close releases resources owned by the Store itself. It never closes a
// caller-supplied *badger.DB handle.
func (s *Store[NP, EP]) Close() error { return s.backend.close() }

// InsertNode upserts node properties, independent of edge existence
// (invariant I4: dangling endpoints are permitted).
func (s *Store[NP, EP]) InsertNode(id NodeID, props NP) error {
	return s.backend.putNode(id, props)
}

// InsertNodes is a convenience bulk form of InsertNode.
func (s *Store[NP, EP]) InsertNodes(nodes map[NodeID]NP) error {
	for id, props := range nodes {
		if err := s.InsertNode(id, props); err != nil {
			return err
		}
	}
	return nil
}

// InsertEdge inserts or overwrites the edge for triple t.
//
// New triple: a fresh EdgeId is allocated, written under all three
// permuted index keys, and props is stored under that EdgeId.
//
// Existing triple: the existing EdgeId is reused and its props entry is
// overwritten, leaving the other two indexes (which already reference the
// same EdgeId) untouched — invariant I1 is preserved trivially.
//
// Writes happen in the fixed order required for atomicity on exit paths
// (spec.md §4.C): edge_props is written first, then the three indexes with
// spo_index last, so a mid-operation backend failure never leaves an index
// pointing at a missing props entry (I2). A failure between index writes
// leaves a partial index set without the spo_index entry, which re-running
// the same call completes. A failure right after the props write leaves an
// orphaned edge_props row, which breaks I3 and is not removed by re-running.
func (s *Store[NP, EP]) InsertEdge(t Triple, props EP) error {
	spoKey := encode(SPO, t)
	existingID, exists, err := s.backend.getIndex(SPO, spoKey)
	if err != nil {
		return err
	}

	id := existingID
	if !exists {
		id = s.ids.NewEdgeID()
	}
	if err := s.backend.putEdgeProps(id, props); err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.backend.putIndex(POS, encode(POS, t), id); err != nil {
		return err
	}
	if err := s.backend.putIndex(OSP, encode(OSP, t), id); err != nil {
		return err
	}
	return s.backend.putIndex(SPO, spoKey, id)
}

// InsertEdges is a convenience bulk form of InsertEdge.
func (s *Store[NP, EP]) InsertEdges(edges map[Triple]EP) error {
	for t, props := range edges {
		if err := s.InsertEdge(t, props); err != nil {
			return err
		}
	}
	return nil
}

// InsertNodesSeq bulk-loads from a lazy iterator, mirroring the teacher's
// BulkCreateNodes, without requiring the caller to materialize a map first.
// Each pair is inserted as it is pulled; on error the load stops and the
// pairs already inserted stay in place.
func (s *Store[NP, EP]) InsertNodesSeq(seq iter.Seq2[NodeID, NP]) error {
	for id, props := range seq {
		if err := s.InsertNode(id, props); err != nil {
			return err
		}
	}
	return nil
}

// InsertEdgesSeq bulk-loads from a lazy iterator, mirroring the teacher's
// BulkCreateEdges.
func (s *Store[NP, EP]) InsertEdgesSeq(seq iter.Seq2[Triple, EP]) error {
	for t, props := range seq {
		if err := s.InsertEdge(t, props); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports the current node and edge counts, mirroring the
// teacher's Engine.NodeCount/EdgeCount.
type Stats struct {
	NodeCount int
	EdgeCount int
}

// Stats walks node_props and the SPO index to report counts. It is O(n)
// on the in-memory backend and performs a full prefix scan on the
// persistent backend; callers needing this on a hot path should cache
// the result themselves.
func (s *Store[NP, EP]) Stats() (Stats, error) {
	var st Stats
	for _, err := range s.IterVertices() {
		if err != nil {
			return Stats{}, err
		}
		st.NodeCount++
	}
	for _, err := range s.IterEdges(SPO) {
		if err != nil {
			return Stats{}, err
		}
		st.EdgeCount++
	}
	return st, nil
}

// RemoveEdge deletes the edge for triple t, if present. Deletion order is
// the reverse of insertion (indexes first, with spo_index last, then
// edge_props), so a failure partway through never leaves an index pointing
// at a removed edge_props entry. A failure between index deletes leaves the
// spo_index entry in place, so re-running the same call finishes the
// removal; a failure on the final edge_props delete leaves an orphaned
// edge_props row, which re-running does not remove.
func (s *Store[NP, EP]) RemoveEdge(t Triple) error {
	id, exists, err := s.backend.getIndex(SPO, encode(SPO, t))
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.backend.deleteIndex(POS, encode(POS, t)); err != nil {
		return err
	}
	if err := s.backend.deleteIndex(OSP, encode(OSP, t)); err != nil {
		return err
	}
	if err := s.backend.deleteIndex(SPO, encode(SPO, t)); err != nil {
		return err
	}
	return s.backend.deleteEdgeProps(id)
}

// RemoveNode deletes id from node_props and removes every edge incident to
// it as subject, object, or predicate, maintaining I1–I3. A node may
// appear as a predicate (spec.md §9, Open Question O1); all three roles
// are scanned.
func (s *Store[NP, EP]) RemoveNode(id NodeID) error {
	if err := s.backend.deleteNode(id); err != nil {
		return err
	}

	var part [16]byte
	copy(part[:], id[:])

	// Subject role: scan spo_index by subject prefix.
	if err := s.removeEdgesByScan(SPO, part); err != nil {
		return err
	}
	// Object role: scan osp_index by object prefix.
	if err := s.removeEdgesByScan(OSP, part); err != nil {
		return err
	}
	// Predicate role: scan pos_index by predicate prefix.
	if err := s.removeEdgesByScan(POS, part); err != nil {
		return err
	}
	return nil
}

// removeEdgesByScan removes every edge whose key under ordering o begins
// with the given 16-byte prefix (the node's role depends on which
// ordering is scanned: subject for SPO, object for OSP, predicate for
// POS). Matching triples are collected before removal since the indexes
// being iterated are mutated by RemoveEdge.
func (s *Store[NP, EP]) removeEdgesByScan(o Order, prefix [16]byte) error {
	lo, hi := prefixBounds(prefix)
	cur, err := s.backend.scanIndexRange(o, lo, hi)
	if err != nil {
		return err
	}
	defer cur.Close()

	var triples []Triple
	for cur.Next() {
		key := cur.Key()
		t, err := decode(o, key[:])
		if err != nil {
			return err
		}
		triples = append(triples, t)
	}
	if err := cur.Err(); err != nil {
		return err
	}

	for _, t := range triples {
		if err := s.RemoveEdge(t); err != nil {
			return err
		}
	}
	return nil
}
