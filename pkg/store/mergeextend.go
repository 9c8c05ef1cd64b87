package store

// Extend performs a destructive last-writer-wins union: every node and
// edge in other is inserted into s, overwriting whatever s already has
// for a colliding NodeID or Triple. Unlike Merge, Extend never consults a
// MergeFunc — the caller's own MergeFunc is bypassed entirely, matching
// spec.md §4.F's "Extend... does not require NP/EP to implement any
// merge trait".
func (s *Store[NP, EP]) Extend(other *Store[NP, EP]) error {
	for entry, err := range other.IterVertices() {
		if err != nil {
			return err
		}
		if err := s.InsertNode(entry.ID, entry.Props); err != nil {
			return err
		}
	}
	for entry, err := range other.IterEdges(SPO) {
		if err != nil {
			return err
		}
		if err := s.InsertEdge(entry.Triple, entry.Props); err != nil {
			return err
		}
	}
	return nil
}

// Merge is Extend's conflict-aware counterpart: when a NodeID or Triple
// exists in both s and other, the configured MergeFunc combines the two
// property values instead of other's value winning outright. A nil
// MergeFunc for a dimension falls back to last-writer-wins for that
// dimension, matching LastWriterWins's semantics.
func (s *Store[NP, EP]) Merge(other *Store[NP, EP]) error {
	for entry, err := range other.IterVertices() {
		if err != nil {
			return err
		}
		existing, ok, err := s.backend.getNode(entry.ID)
		if err != nil {
			return err
		}
		props := entry.Props
		if ok && s.mergeN != nil {
			props = s.mergeN(existing, entry.Props)
		}
		if err := s.InsertNode(entry.ID, props); err != nil {
			return err
		}
	}
	for entry, err := range other.IterEdges(SPO) {
		if err != nil {
			return err
		}
		id, exists, err := s.backend.getIndex(SPO, encode(SPO, entry.Triple))
		if err != nil {
			return err
		}
		props := entry.Props
		if exists && s.mergeE != nil {
			existing, ok, err := s.backend.getEdgeProps(id)
			if err != nil {
				return err
			}
			if ok {
				props = s.mergeE(existing, entry.Props)
			}
		}
		if err := s.InsertEdge(entry.Triple, props); err != nil {
			return err
		}
	}
	return nil
}
