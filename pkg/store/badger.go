// Package store - persistent back end on top of BadgerDB.
//
// BadgerDB has no native "tree"/bucket namespacing (unlike bbolt's
// buckets). Exactly as the teacher's own badger.go namespaces its Node,
// Edge, and index maps with single-byte key prefixes, the five logical
// maps spec.md §6 calls node_data/edge_data/spo_data/pos_data/osp_data are
// realized here as single-byte prefixes within one shared *badger.DB.
package store

import (
	"bytes"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes, one per logical map (spec.md §6 tree names in comments).
const (
	prefixNodeProps = byte(0x01) // node_data
	prefixEdgeProps = byte(0x02) // edge_data
	prefixSPO       = byte(0x03) // spo_data
	prefixPOS       = byte(0x04) // pos_data
	prefixOSP       = byte(0x05) // osp_data
)

// BadgerOptions configures the persistent backend. It is a deliberately
// small subset of the teacher's BadgerOptions (pkg/storage/badger.go),
// scaled down from a Neo4j-compatible server's needs to what an embeddable
// triple store actually uses.
type BadgerOptions struct {
	// DataDir is the on-disk directory. Ignored if InMemory is true.
	DataDir string
	// InMemory runs Badger's own in-memory mode. Prefer the memoryBackend
	// (NewMemoryStore) for tests; this exists for callers who specifically
	// want Badger's transaction semantics without touching disk.
	InMemory bool
	// Logger receives Badger's internal log output. Defaults to a logger
	// writing to os.Stderr, matching the teacher's restrained log usage.
	Logger badger.Logger
}

// OpenBadger opens (or creates) a Badger database at the given options.
// The caller owns the returned handle and must Close it; NewBadgerStore
// does not take ownership (spec.md §5).
func OpenBadger(opts BadgerOptions) (*badger.DB, error) {
	dir := opts.DataDir
	if opts.InMemory {
		dir = ""
	}
	bo := badger.DefaultOptions(dir)
	if opts.InMemory {
		bo = bo.WithInMemory(true)
	}
	if opts.Logger != nil {
		bo = bo.WithLogger(opts.Logger)
	}
	db, err := badger.Open(bo)
	if err != nil {
		return nil, wrapBackendIO(err)
	}
	return db, nil
}

var badgerDiagLog = log.New(os.Stderr, "store/badger: ", log.LstdFlags)

// badgerBackend is the persistent backend. NP/EP are encoded with the
// supplied Codec before being written to Badger and decoded on read,
// exactly as the teacher's badger_serialization.go encodes Node/Edge with
// encoding/json before calling txn.Set.
type badgerBackend[NP, EP any] struct {
	db         *badger.DB
	nodeCodec  Codec[NP]
	edgeCodec  Codec[EP]
}

func newBadgerBackend[NP, EP any](db *badger.DB, nodeCodec Codec[NP], edgeCodec Codec[EP]) *badgerBackend[NP, EP] {
	return &badgerBackend[NP, EP]{db: db, nodeCodec: nodeCodec, edgeCodec: edgeCodec}
}

func nodeDataKey(id NodeID) []byte {
	k := make([]byte, 0, 17)
	k = append(k, prefixNodeProps)
	return append(k, id[:]...)
}

func edgeDataKey(id EdgeID) []byte {
	k := make([]byte, 0, 17)
	k = append(k, prefixEdgeProps)
	return append(k, id[:]...)
}

func indexPrefixByte(o Order) byte {
	switch o {
	case SPO:
		return prefixSPO
	case POS:
		return prefixPOS
	case OSP:
		return prefixOSP
	default:
		panic("store: unknown order")
	}
}

func indexDataKey(o Order, key triKey) []byte {
	k := make([]byte, 0, 1+tripleKeyLen)
	k = append(k, indexPrefixByte(o))
	return append(k, key[:]...)
}

func (b *badgerBackend[NP, EP]) getNode(id NodeID) (NP, bool, error) {
	var props NP
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nodeDataKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := b.nodeCodec.Decode(val)
			if err != nil {
				return err
			}
			props, found = decoded, true
			return nil
		})
	})
	if err != nil {
		return props, false, wrapSerialization(err)
	}
	return props, found, nil
}

func (b *badgerBackend[NP, EP]) putNode(id NodeID, p NP) error {
	data, err := b.nodeCodec.Encode(p)
	if err != nil {
		return wrapSerialization(err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(nodeDataKey(id), data)
	})
	return wrapBackendIO(err)
}

func (b *badgerBackend[NP, EP]) deleteNode(id NodeID) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(nodeDataKey(id))
	})
	return wrapBackendIO(err)
}

func (b *badgerBackend[NP, EP]) getEdgeProps(id EdgeID) (EP, bool, error) {
	var props EP
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(edgeDataKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := b.edgeCodec.Decode(val)
			if err != nil {
				return err
			}
			props, found = decoded, true
			return nil
		})
	})
	if err != nil {
		return props, false, wrapSerialization(err)
	}
	return props, found, nil
}

func (b *badgerBackend[NP, EP]) putEdgeProps(id EdgeID, p EP) error {
	data, err := b.edgeCodec.Encode(p)
	if err != nil {
		return wrapSerialization(err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(edgeDataKey(id), data)
	})
	return wrapBackendIO(err)
}

func (b *badgerBackend[NP, EP]) deleteEdgeProps(id EdgeID) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(edgeDataKey(id))
	})
	return wrapBackendIO(err)
}

func (b *badgerBackend[NP, EP]) getIndex(o Order, key triKey) (EdgeID, bool, error) {
	var id EdgeID
	var found bool
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexDataKey(o, key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 16 {
				return keySizeError(len(val))
			}
			copy(id[:], val)
			found = true
			return nil
		})
	})
	if err != nil {
		return EdgeID{}, false, wrapBackendIO(err)
	}
	return id, found, nil
}

func (b *badgerBackend[NP, EP]) putIndex(o Order, key triKey, id EdgeID) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(indexDataKey(o, key), id[:])
	})
	return wrapBackendIO(err)
}

func (b *badgerBackend[NP, EP]) deleteIndex(o Order, key triKey) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(indexDataKey(o, key))
	})
	return wrapBackendIO(err)
}

func (b *badgerBackend[NP, EP]) close() error { return nil }

// scanIndexRange snapshots the [lo, hi] inclusive range into a slice
// cursor so the txn can be discarded before the caller starts consuming
// results (Badger iterators must not outlive their transaction).
func (b *badgerBackend[NP, EP]) scanIndexRange(o Order, lo, hi triKey) (indexCursor, error) {
	var items []indexItem
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{indexPrefixByte(o)}
		it := txn.NewIterator(opts)
		defer it.Close()

		loKey := indexDataKey(o, lo)
		hiKey := indexDataKey(o, hi)
		for it.Seek(loKey); it.Valid(); it.Next() {
			k := it.Item().KeyCopy(nil)
			if bytes.Compare(k, hiKey) > 0 {
				break
			}
			var entry indexItem
			copy(entry.key[:], k[1:])
			if err := it.Item().Value(func(val []byte) error {
				if len(val) != 16 {
					return keySizeError(len(val))
				}
				copy(entry.id[:], val)
				return nil
			}); err != nil {
				return err
			}
			items = append(items, entry)
		}
		return nil
	})
	if err != nil {
		return nil, wrapBackendIO(err)
	}
	return &sliceIndexCursor{items: items, pos: -1}, nil
}

func (b *badgerBackend[NP, EP]) scanIndexAll(o Order) (indexCursor, error) {
	var items []indexItem
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{indexPrefixByte(o)}
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			k := it.Item().KeyCopy(nil)
			var entry indexItem
			if len(k) != 1+tripleKeyLen {
				badgerDiagLog.Printf("corrupt %s index key: got %d bytes, want %d", o, len(k)-1, tripleKeyLen)
				return keySizeError(len(k) - 1)
			}
			copy(entry.key[:], k[1:])
			if err := it.Item().Value(func(val []byte) error {
				if len(val) != 16 {
					return keySizeError(len(val))
				}
				copy(entry.id[:], val)
				return nil
			}); err != nil {
				return err
			}
			items = append(items, entry)
		}
		return nil
	})
	if err != nil {
		return nil, wrapBackendIO(err)
	}
	return &sliceIndexCursor{items: items, pos: -1}, nil
}

func (b *badgerBackend[NP, EP]) scanNodes() (nodeCursor[NP], error) {
	var items []nodeItem[NP]
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{prefixNodeProps}
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			k := it.Item().KeyCopy(nil)
			if len(k) != 17 {
				badgerDiagLog.Printf("corrupt node_data key: got %d bytes, want 16", len(k)-1)
				return keySizeError(len(k) - 1)
			}
			var entry nodeItem[NP]
			copy(entry.id[:], k[1:])
			if err := it.Item().Value(func(val []byte) error {
				decoded, err := b.nodeCodec.Decode(val)
				if err != nil {
					return err
				}
				entry.props = decoded
				return nil
			}); err != nil {
				return err
			}
			items = append(items, entry)
		}
		return nil
	})
	if err != nil {
		return nil, wrapSerialization(err)
	}
	return &sliceNodeCursor[NP]{items: items, pos: -1}, nil
}
