package store

// SPPair is a known (subject, predicate) pair for an SP-shaped query.
type SPPair struct{ Sub, Pred NodeID }

// POPair is a known (predicate, object) pair for a PO-shaped query.
type POPair struct{ Pred, Obj NodeID }

// SOPair is a known (subject, object) pair for an SO-shaped query.
type SOPair struct{ Sub, Obj NodeID }

type shapeKind int

const (
	shapeNodeProperty shapeKind = iota
	shapeEdgeProperty
	shapeS
	shapeP
	shapeO
	shapeSP
	shapePO
	shapeSO
)

// Query is one of the closed set of triple-pattern query shapes spec.md
// §4.E defines. Build one with the QueryXxx constructors below; the shape
// determines which index is range-scanned and which fields of the
// resulting QueryResult are populated.
type Query struct {
	shape   shapeKind
	nodeIDs []NodeID
	triples []Triple
	sps     []SPPair
	pos     []POPair
	sos     []SOPair
}

// QueryNodeProperty looks up node_props by point lookups.
func QueryNodeProperty(ids ...NodeID) Query { return Query{shape: shapeNodeProperty, nodeIDs: ids} }

// QueryEdgeProperty looks up edge_props via spo_index point lookups.
func QueryEdgeProperty(triples ...Triple) Query {
	return Query{shape: shapeEdgeProperty, triples: triples}
}

// QueryS returns, for each known subject, every edge with that subject —
// one range scan per subject over spo_index.
func QueryS(subjects ...NodeID) Query { return Query{shape: shapeS, nodeIDs: subjects} }

// QueryP returns, for each known predicate, every edge with that
// predicate — one range scan per predicate over pos_index.
func QueryP(predicates ...NodeID) Query { return Query{shape: shapeP, nodeIDs: predicates} }

// QueryO returns, for each known object, every edge with that object —
// one range scan per object over osp_index.
func QueryO(objects ...NodeID) Query { return Query{shape: shapeO, nodeIDs: objects} }

// QuerySP returns, for each known (subject, predicate) pair, every
// matching edge — one range scan per pair over spo_index.
func QuerySP(pairs ...SPPair) Query { return Query{shape: shapeSP, sps: pairs} }

// QueryPO returns, for each known (predicate, object) pair, every
// matching edge — one range scan per pair over pos_index.
func QueryPO(pairs ...POPair) Query { return Query{shape: shapePO, pos: pairs} }

// QuerySO returns, for each known (subject, object) pair, every matching
// edge — one range scan per pair over osp_index, keyed (object, subject)
// since that is osp_index's prefix order.
func QuerySO(pairs ...SOPair) Query { return Query{shape: shapeSO, sos: pairs} }

// QueryResult carries whichever fields the query's shape populates:
// NodeProps for NodeProperty, EdgeProps for EdgeProperty, Edges for the
// six triple-pattern shapes (S, P, O, SP, PO, SO).
type QueryResult[NP, EP any] struct {
	NodeProps map[NodeID]NP
	EdgeProps map[Triple]EP
	Edges     []EdgeEntry[EP]
}

// Query evaluates q by selecting the index whose key prefix fully covers
// the pattern's known components and range-scanning it — never an index
// that would require post-filtering when another index could answer by
// prefix alone (spec.md §4.E selection rule).
func (s *Store[NP, EP]) Query(q Query) (QueryResult[NP, EP], error) {
	switch q.shape {
	case shapeNodeProperty:
		return s.queryNodeProperty(q.nodeIDs)
	case shapeEdgeProperty:
		return s.queryEdgeProperty(q.triples)
	case shapeS:
		return s.queryByPrefix(SPO, oneParts(q.nodeIDs))
	case shapeP:
		return s.queryByPrefix(POS, oneParts(q.nodeIDs))
	case shapeO:
		return s.queryByPrefix(OSP, oneParts(q.nodeIDs))
	case shapeSP:
		parts := make([][][16]byte, len(q.sps))
		for i, p := range q.sps {
			parts[i] = [][16]byte{p.Sub, p.Pred}
		}
		return s.queryByPrefixMulti(SPO, parts)
	case shapePO:
		parts := make([][][16]byte, len(q.pos))
		for i, p := range q.pos {
			parts[i] = [][16]byte{p.Pred, p.Obj}
		}
		return s.queryByPrefixMulti(POS, parts)
	case shapeSO:
		parts := make([][][16]byte, len(q.sos))
		for i, p := range q.sos {
			// osp_index orders obj, sub, pred — the prefix is (O, S).
			parts[i] = [][16]byte{p.Obj, p.Sub}
		}
		return s.queryByPrefixMulti(OSP, parts)
	default:
		return QueryResult[NP, EP]{}, &Error{Kind: KindSetOpsFailure, Message: "unknown query shape"}
	}
}

func oneParts(ids []NodeID) [][][16]byte {
	parts := make([][][16]byte, len(ids))
	for i, id := range ids {
		parts[i] = [][16]byte{[16]byte(id)}
	}
	return parts
}

func (s *Store[NP, EP]) queryNodeProperty(ids []NodeID) (QueryResult[NP, EP], error) {
	out := make(map[NodeID]NP, len(ids))
	for _, id := range ids {
		props, ok, err := s.backend.getNode(id)
		if err != nil {
			return QueryResult[NP, EP]{}, err
		}
		if ok {
			out[id] = props
		}
	}
	return QueryResult[NP, EP]{NodeProps: out}, nil
}

func (s *Store[NP, EP]) queryEdgeProperty(triples []Triple) (QueryResult[NP, EP], error) {
	out := make(map[Triple]EP, len(triples))
	for _, t := range triples {
		id, ok, err := s.backend.getIndex(SPO, encode(SPO, t))
		if err != nil {
			return QueryResult[NP, EP]{}, err
		}
		if !ok {
			continue
		}
		props, ok, err := s.backend.getEdgeProps(id)
		if err != nil {
			return QueryResult[NP, EP]{}, err
		}
		if !ok {
			return QueryResult[NP, EP]{}, missingPropertyError("edge " + id.String() + " indexed with no edge_props entry")
		}
		out[t] = props
	}
	return QueryResult[NP, EP]{EdgeProps: out}, nil
}

// queryByPrefix resolves one known component per pattern (S, P, or O).
func (s *Store[NP, EP]) queryByPrefix(o Order, parts [][][16]byte) (QueryResult[NP, EP], error) {
	return s.queryByPrefixMulti(o, parts)
}

// queryByPrefixMulti range-scans ordering o once per pattern in parts,
// where each pattern is 1-3 known 16-byte components in that ordering's
// key layout, and resolves edge_props for every matching edge.
func (s *Store[NP, EP]) queryByPrefixMulti(o Order, parts [][][16]byte) (QueryResult[NP, EP], error) {
	var edges []EdgeEntry[EP]
	for _, known := range parts {
		lo, hi := prefixBounds(known...)
		cur, err := s.backend.scanIndexRange(o, lo, hi)
		if err != nil {
			return QueryResult[NP, EP]{}, err
		}
		err = func() error {
			defer cur.Close()
			for cur.Next() {
				key := cur.Key()
				t, err := decode(o, key[:])
				if err != nil {
					return err
				}
				props, ok, err := s.backend.getEdgeProps(cur.EdgeID())
				if err != nil {
					return err
				}
				if !ok {
					return missingPropertyError("edge " + cur.EdgeID().String() + " indexed with no edge_props entry")
				}
				edges = append(edges, EdgeEntry[EP]{Triple: t, Props: props})
			}
			return cur.Err()
		}()
		if err != nil {
			return QueryResult[NP, EP]{}, err
		}
	}
	return QueryResult[NP, EP]{Edges: edges}, nil
}
