package store

// backend is the storage back-end contract (spec.md §4.B): uniform
// operations over the five ordered maps (node_props, edge_props, spo, pos,
// osp) plus point, range, and full-scan reads. Both the in-memory and the
// Badger-backed implementations satisfy this interface; Store's
// insertion/removal, iteration, query, merge/extend, and set-ops engines
// are written once against it.
type backend[NP, EP any] interface {
	getNode(id NodeID) (NP, bool, error)
	putNode(id NodeID, p NP) error
	deleteNode(id NodeID) error
	scanNodes() (nodeCursor[NP], error)

	getEdgeProps(id EdgeID) (EP, bool, error)
	putEdgeProps(id EdgeID, p EP) error
	deleteEdgeProps(id EdgeID) error

	getIndex(o Order, key triKey) (EdgeID, bool, error)
	putIndex(o Order, key triKey, id EdgeID) error
	deleteIndex(o Order, key triKey) error

	// scanIndexRange iterates ascending keys in [lo, hi] inclusive.
	scanIndexRange(o Order, lo, hi triKey) (indexCursor, error)
	// scanIndexAll iterates every key of ordering o in ascending order.
	scanIndexAll(o Order) (indexCursor, error)

	close() error
}

// indexCursor walks one of the three edge indexes in ascending key order.
// Callers must call Close when done, even after an error or early exit.
type indexCursor interface {
	Next() bool
	Key() triKey
	EdgeID() EdgeID
	Err() error
	Close()
}

// nodeCursor walks node_props in ascending NodeID order.
type nodeCursor[NP any] interface {
	Next() bool
	NodeID() NodeID
	Props() NP
	Err() error
	Close()
}
