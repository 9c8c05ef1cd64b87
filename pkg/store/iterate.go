package store

import "iter"

// NodeEntry pairs a NodeID with its resolved properties.
type NodeEntry[NP any] struct {
	ID    NodeID
	Props NP
}

// EdgeEntry pairs a Triple with its resolved edge properties.
type EdgeEntry[EP any] struct {
	Triple Triple
	Props  EP
}

// PropsTriple is a triple with every component — subject, predicate, and
// object — resolved against node_props. Building one requires all three
// NodeIDs to have a node_props entry; invariant I4 permits dangling
// endpoints on a bare Triple, but decoration does not.
type PropsTriple[NP any] struct {
	Sub  NodeEntry[NP]
	Pred NodeEntry[NP]
	Obj  NodeEntry[NP]
}

// IterVertices streams every (NodeID, NodeProperties) pair in NodeID
// order, independent of any edge ordering. The stream is lazy, finite,
// and single-pass: range over it with `for entry, err := range seq`, and
// stop early by breaking — no cleanup beyond that is required.
func (s *Store[NP, EP]) IterVertices() iter.Seq2[NodeEntry[NP], error] {
	return func(yield func(NodeEntry[NP], error) bool) {
		cur, err := s.backend.scanNodes()
		if err != nil {
			yield(NodeEntry[NP]{}, err)
			return
		}
		defer cur.Close()
		for cur.Next() {
			if !yield(NodeEntry[NP]{ID: cur.NodeID(), Props: cur.Props()}, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(NodeEntry[NP]{}, err)
		}
	}
}

// IterEdges streams every (Triple, EdgeProperties) pair in the requested
// ordering. The three orderings enumerate the identical edge set
// (invariant I1); only the order of delivery differs.
func (s *Store[NP, EP]) IterEdges(o Order) iter.Seq2[EdgeEntry[EP], error] {
	return func(yield func(EdgeEntry[EP], error) bool) {
		cur, err := s.backend.scanIndexAll(o)
		if err != nil {
			yield(EdgeEntry[EP]{}, err)
			return
		}
		defer cur.Close()
		for cur.Next() {
			key := cur.Key()
			t, err := decode(o, key[:])
			if err != nil {
				if !yield(EdgeEntry[EP]{}, err) {
					return
				}
				continue
			}
			props, found, err := s.backend.getEdgeProps(cur.EdgeID())
			if err != nil {
				if !yield(EdgeEntry[EP]{}, err) {
					return
				}
				continue
			}
			if !found {
				// Invariant I2 violated: an index entry with no props.
				if !yield(EdgeEntry[EP]{}, missingPropertyError("edge index references EdgeID "+cur.EdgeID().String()+" with no edge_props entry")) {
					return
				}
				continue
			}
			if !yield(EdgeEntry[EP]{Triple: t, Props: props}, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(EdgeEntry[EP]{}, err)
		}
	}
}

// IterEdgesWithProps streams decorated edges: each triple with subject,
// predicate, and object resolved against node_props. An element fails
// with MissingPropertyData (without terminating the stream) if any
// endpoint lacks a node_props entry — I4 permits dangling endpoints on a
// plain edge, but decoration requires them resolvable.
func (s *Store[NP, EP]) IterEdgesWithProps(o Order) iter.Seq2[PropsTriple[NP], error] {
	return func(yield func(PropsTriple[NP], error) bool) {
		for entry, err := range s.IterEdges(o) {
			if err != nil {
				if !yield(PropsTriple[NP]{}, err) {
					return
				}
				continue
			}
			pt, err := s.decorate(entry.Triple)
			if err != nil {
				if !yield(PropsTriple[NP]{}, err) {
					return
				}
				continue
			}
			if !yield(pt, nil) {
				return
			}
		}
	}
}

func (s *Store[NP, EP]) decorate(t Triple) (PropsTriple[NP], error) {
	sub, ok, err := s.backend.getNode(t.Sub)
	if err != nil {
		return PropsTriple[NP]{}, err
	}
	if !ok {
		return PropsTriple[NP]{}, missingPropertyError("subject " + t.Sub.String() + " has no node_props entry")
	}
	pred, ok, err := s.backend.getNode(t.Pred)
	if err != nil {
		return PropsTriple[NP]{}, err
	}
	if !ok {
		return PropsTriple[NP]{}, missingPropertyError("predicate " + t.Pred.String() + " has no node_props entry")
	}
	obj, ok, err := s.backend.getNode(t.Obj)
	if err != nil {
		return PropsTriple[NP]{}, err
	}
	if !ok {
		return PropsTriple[NP]{}, missingPropertyError("object " + t.Obj.String() + " has no node_props entry")
	}
	return PropsTriple[NP]{
		Sub:  NodeEntry[NP]{ID: t.Sub, Props: sub},
		Pred: NodeEntry[NP]{ID: t.Pred, Props: pred},
		Obj:  NodeEntry[NP]{ID: t.Obj, Props: obj},
	}, nil
}
