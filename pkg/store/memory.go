package store

import (
	"bytes"
	"sync"

	"github.com/tidwall/btree"
)

// memoryBackend is the in-memory back end: five ordered maps realized with
// github.com/tidwall/btree, giving true key-ordered iteration (unlike Go's
// built-in map) without pulling in a full embedded database for tests and
// small graphs. It is not safe for concurrent mutation from multiple
// goroutines at once (spec.md §5); the mutex below only protects against
// data races during a single logical operation's internal bookkeeping.
type memoryBackend[NP, EP any] struct {
	mu sync.Mutex

	nodes *btree.BTreeG[nodeItem[NP]]
	edges *btree.BTreeG[edgePropsItem[EP]]
	spo   *btree.BTreeG[indexItem]
	pos   *btree.BTreeG[indexItem]
	osp   *btree.BTreeG[indexItem]
}

type nodeItem[NP any] struct {
	id    NodeID
	props NP
}

type edgePropsItem[EP any] struct {
	id    EdgeID
	props EP
}

type indexItem struct {
	key triKey
	id  EdgeID
}

func newMemoryBackend[NP, EP any]() *memoryBackend[NP, EP] {
	return &memoryBackend[NP, EP]{
		nodes: btree.NewBTreeG[nodeItem[NP]](func(a, b nodeItem[NP]) bool {
			return bytes.Compare(a.id[:], b.id[:]) < 0
		}),
		edges: btree.NewBTreeG[edgePropsItem[EP]](func(a, b edgePropsItem[EP]) bool {
			return bytes.Compare(a.id[:], b.id[:]) < 0
		}),
		spo: newIndexTree(),
		pos: newIndexTree(),
		osp: newIndexTree(),
	}
}

func newIndexTree() *btree.BTreeG[indexItem] {
	return btree.NewBTreeG[indexItem](func(a, b indexItem) bool {
		return bytes.Compare(a.key[:], b.key[:]) < 0
	})
}

func (b *memoryBackend[NP, EP]) indexTree(o Order) *btree.BTreeG[indexItem] {
	switch o {
	case SPO:
		return b.spo
	case POS:
		return b.pos
	case OSP:
		return b.osp
	default:
		panic("store: unknown order")
	}
}

func (b *memoryBackend[NP, EP]) getNode(id NodeID) (NP, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.nodes.Get(nodeItem[NP]{id: id})
	return item.props, ok, nil
}

func (b *memoryBackend[NP, EP]) putNode(id NodeID, p NP) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes.Set(nodeItem[NP]{id: id, props: p})
	return nil
}

func (b *memoryBackend[NP, EP]) deleteNode(id NodeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes.Delete(nodeItem[NP]{id: id})
	return nil
}

func (b *memoryBackend[NP, EP]) getEdgeProps(id EdgeID) (EP, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.edges.Get(edgePropsItem[EP]{id: id})
	return item.props, ok, nil
}

func (b *memoryBackend[NP, EP]) putEdgeProps(id EdgeID, p EP) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edges.Set(edgePropsItem[EP]{id: id, props: p})
	return nil
}

func (b *memoryBackend[NP, EP]) deleteEdgeProps(id EdgeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edges.Delete(edgePropsItem[EP]{id: id})
	return nil
}

func (b *memoryBackend[NP, EP]) getIndex(o Order, key triKey) (EdgeID, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.indexTree(o).Get(indexItem{key: key})
	return item.id, ok, nil
}

func (b *memoryBackend[NP, EP]) putIndex(o Order, key triKey, id EdgeID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.indexTree(o).Set(indexItem{key: key, id: id})
	return nil
}

func (b *memoryBackend[NP, EP]) deleteIndex(o Order, key triKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.indexTree(o).Delete(indexItem{key: key})
	return nil
}

func (b *memoryBackend[NP, EP]) close() error { return nil }

// scanIndexRange snapshots every matching item up front (rather than
// holding the tree's internal iterator live across calls back into the
// backend), which keeps the cursor safe to use even if the caller mutates
// the store mid-scan.
func (b *memoryBackend[NP, EP]) scanIndexRange(o Order, lo, hi triKey) (indexCursor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var items []indexItem
	iter := b.indexTree(o).Iter()
	defer iter.Release()
	for ok := iter.Seek(indexItem{key: lo}); ok; ok = iter.Next() {
		item := iter.Item()
		if bytes.Compare(item.key[:], hi[:]) > 0 {
			break
		}
		items = append(items, item)
	}
	return &sliceIndexCursor{items: items, pos: -1}, nil
}

func (b *memoryBackend[NP, EP]) scanIndexAll(o Order) (indexCursor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]indexItem, 0, b.indexTree(o).Len())
	b.indexTree(o).Scan(func(item indexItem) bool {
		items = append(items, item)
		return true
	})
	return &sliceIndexCursor{items: items, pos: -1}, nil
}

func (b *memoryBackend[NP, EP]) scanNodes() (nodeCursor[NP], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]nodeItem[NP], 0, b.nodes.Len())
	b.nodes.Scan(func(item nodeItem[NP]) bool {
		items = append(items, item)
		return true
	})
	return &sliceNodeCursor[NP]{items: items, pos: -1}, nil
}

type sliceIndexCursor struct {
	items []indexItem
	pos   int
}

func (c *sliceIndexCursor) Next() bool {
	c.pos++
	return c.pos < len(c.items)
}
func (c *sliceIndexCursor) Key() triKey    { return c.items[c.pos].key }
func (c *sliceIndexCursor) EdgeID() EdgeID { return c.items[c.pos].id }
func (c *sliceIndexCursor) Err() error     { return nil }
func (c *sliceIndexCursor) Close()         {}

type sliceNodeCursor[NP any] struct {
	items []nodeItem[NP]
	pos   int
}

func (c *sliceNodeCursor[NP]) Next() bool {
	c.pos++
	return c.pos < len(c.items)
}
func (c *sliceNodeCursor[NP]) NodeID() NodeID { return c.items[c.pos].id }
func (c *sliceNodeCursor[NP]) Props() NP      { return c.items[c.pos].props }
func (c *sliceNodeCursor[NP]) Err() error     { return nil }
func (c *sliceNodeCursor[NP]) Close()         {}
