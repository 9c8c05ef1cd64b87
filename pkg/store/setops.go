package store

import "bytes"

// Union returns a new in-memory store holding every triple present in s
// or other. On a triple present in both, properties are combined with s's
// MergeFunc (falling back to last-writer-wins for a nil MergeFunc). Node
// properties are merged the same way. Neither input is mutated.
func (s *Store[NP, EP]) Union(other *Store[NP, EP]) (*Store[NP, EP], error) {
	out := NewMemoryStore[NP, EP](s.mergeN, s.mergeE)
	err := s.walkSPO(other, func(t Triple, a, b *EP) error {
		switch {
		case a != nil && b != nil:
			return out.InsertEdge(t, s.mergeEdgeProps(*a, *b))
		case a != nil:
			return out.InsertEdge(t, *a)
		default:
			return out.InsertEdge(t, *b)
		}
	})
	if err != nil {
		return nil, setOpsError("union", err)
	}
	if err := mergeNodesInto(out, s, other, s.mergeN); err != nil {
		return nil, setOpsError("union", err)
	}
	return out, nil
}

// Intersection returns a new in-memory store holding only triples present
// in both s and other, with properties merged via s's MergeFunc.
func (s *Store[NP, EP]) Intersection(other *Store[NP, EP]) (*Store[NP, EP], error) {
	out := NewMemoryStore[NP, EP](s.mergeN, s.mergeE)
	err := s.walkSPO(other, func(t Triple, a, b *EP) error {
		if a == nil || b == nil {
			return nil
		}
		return out.InsertEdge(t, s.mergeEdgeProps(*a, *b))
	})
	if err != nil {
		return nil, setOpsError("intersection", err)
	}
	if err := mergeNodesInto(out, s, other, s.mergeN); err != nil {
		return nil, setOpsError("intersection", err)
	}
	return out, nil
}

// Difference returns a new in-memory store holding triples present in s
// but absent from other, retaining s's properties unmodified.
func (s *Store[NP, EP]) Difference(other *Store[NP, EP]) (*Store[NP, EP], error) {
	out := NewMemoryStore[NP, EP](s.mergeN, s.mergeE)
	err := s.walkSPO(other, func(t Triple, a, b *EP) error {
		if a == nil || b != nil {
			return nil
		}
		return out.InsertEdge(t, *a)
	})
	if err != nil {
		return nil, setOpsError("difference", err)
	}
	if err := copyNodesInto(out, s); err != nil {
		return nil, setOpsError("difference", err)
	}
	return out, nil
}

// SymmetricDifference returns a new in-memory store holding triples
// present in exactly one of s or other, retaining that side's properties.
func (s *Store[NP, EP]) SymmetricDifference(other *Store[NP, EP]) (*Store[NP, EP], error) {
	out := NewMemoryStore[NP, EP](s.mergeN, s.mergeE)
	err := s.walkSPO(other, func(t Triple, a, b *EP) error {
		switch {
		case a != nil && b == nil:
			return out.InsertEdge(t, *a)
		case a == nil && b != nil:
			return out.InsertEdge(t, *b)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, setOpsError("symmetric_difference", err)
	}
	if err := copyNodesInto(out, s); err != nil {
		return nil, setOpsError("symmetric_difference", err)
	}
	if err := copyNodesInto(out, other); err != nil {
		return nil, setOpsError("symmetric_difference", err)
	}
	return out, nil
}

func (s *Store[NP, EP]) mergeEdgeProps(a, b EP) EP {
	if s.mergeE == nil {
		return b
	}
	return s.mergeE(a, b)
}

// walkSPO performs a merged ordered walk of s's and other's SPO indexes —
// O(|s|+|other|) — invoking fn once per distinct triple encountered in
// either side, with a non-nil pointer for each side that has it.
func (s *Store[NP, EP]) walkSPO(other *Store[NP, EP], fn func(t Triple, a, b *EP) error) error {
	aCur, err := s.backend.scanIndexAll(SPO)
	if err != nil {
		return err
	}
	defer aCur.Close()
	bCur, err := other.backend.scanIndexAll(SPO)
	if err != nil {
		return err
	}
	defer bCur.Close()

	aOK := aCur.Next()
	bOK := bCur.Next()
	for aOK || bOK {
		switch {
		case aOK && bOK:
			aKey, bKey := aCur.Key(), bCur.Key()
			cmp := bytes.Compare(aKey[:], bKey[:])
			switch {
			case cmp < 0:
				t, err := decode(SPO, aKey[:])
				if err != nil {
					return err
				}
				props, err := resolveEdgeProps(s, aCur.EdgeID())
				if err != nil {
					return err
				}
				if err := fn(t, &props, nil); err != nil {
					return err
				}
				aOK = aCur.Next()
			case cmp > 0:
				t, err := decode(SPO, bKey[:])
				if err != nil {
					return err
				}
				props, err := resolveEdgeProps(other, bCur.EdgeID())
				if err != nil {
					return err
				}
				if err := fn(t, nil, &props); err != nil {
					return err
				}
				bOK = bCur.Next()
			default:
				t, err := decode(SPO, aKey[:])
				if err != nil {
					return err
				}
				aProps, err := resolveEdgeProps(s, aCur.EdgeID())
				if err != nil {
					return err
				}
				bProps, err := resolveEdgeProps(other, bCur.EdgeID())
				if err != nil {
					return err
				}
				if err := fn(t, &aProps, &bProps); err != nil {
					return err
				}
				aOK = aCur.Next()
				bOK = bCur.Next()
			}
		case aOK:
			aKey := aCur.Key()
			t, err := decode(SPO, aKey[:])
			if err != nil {
				return err
			}
			props, err := resolveEdgeProps(s, aCur.EdgeID())
			if err != nil {
				return err
			}
			if err := fn(t, &props, nil); err != nil {
				return err
			}
			aOK = aCur.Next()
		default:
			bKey := bCur.Key()
			t, err := decode(SPO, bKey[:])
			if err != nil {
				return err
			}
			props, err := resolveEdgeProps(other, bCur.EdgeID())
			if err != nil {
				return err
			}
			if err := fn(t, nil, &props); err != nil {
				return err
			}
			bOK = bCur.Next()
		}
	}
	if err := aCur.Err(); err != nil {
		return err
	}
	return bCur.Err()
}

func resolveEdgeProps[NP, EP any](s *Store[NP, EP], id EdgeID) (EP, error) {
	props, ok, err := s.backend.getEdgeProps(id)
	if err != nil {
		return props, err
	}
	if !ok {
		return props, missingPropertyError("edge " + id.String() + " indexed with no edge_props entry")
	}
	return props, nil
}

// mergeNodesInto copies every node from a and b into out, merging
// properties with mergeN (falling back to last-writer-wins) where a node
// appears in both.
func mergeNodesInto[NP, EP any](out, a, b *Store[NP, EP], mergeN MergeFunc[NP]) error {
	for entry, err := range a.IterVertices() {
		if err != nil {
			return err
		}
		if err := out.InsertNode(entry.ID, entry.Props); err != nil {
			return err
		}
	}
	for entry, err := range b.IterVertices() {
		if err != nil {
			return err
		}
		existing, ok, err := out.backend.getNode(entry.ID)
		if err != nil {
			return err
		}
		props := entry.Props
		if ok && mergeN != nil {
			props = mergeN(existing, entry.Props)
		}
		if err := out.InsertNode(entry.ID, props); err != nil {
			return err
		}
	}
	return nil
}

// copyNodesInto copies every node from src into out as-is, used by the
// operations that retain one side's properties unmodified.
func copyNodesInto[NP, EP any](out, src *Store[NP, EP]) error {
	for entry, err := range src.IterVertices() {
		if err != nil {
			return err
		}
		if err := out.InsertNode(entry.ID, entry.Props); err != nil {
			return err
		}
	}
	return nil
}
