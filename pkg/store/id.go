package store

import (
	"bytes"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NodeID is a 128-bit lexicographically-sortable time-ordered identifier
// (a ULID) naming a vertex. Two NodeIDs compare equal iff their big-endian
// byte representations are identical; ordering is the natural byte order.
type NodeID [16]byte

// EdgeID identifies an edge's property entry. It is distinct from the
// predicate of a triple, which is itself a NodeID.
type EdgeID [16]byte

// String renders the canonical Crockford base32 ULID form.
func (id NodeID) String() string { return ulid.ULID(id).String() }

// String renders the canonical Crockford base32 ULID form.
func (id EdgeID) String() string { return ulid.ULID(id).String() }

// Compare orders two NodeIDs by their big-endian byte representation.
func (id NodeID) Compare(other NodeID) int { return bytes.Compare(id[:], other[:]) }

// Compare orders two EdgeIDs by their big-endian byte representation.
func (id EdgeID) Compare(other EdgeID) int { return bytes.Compare(id[:], other[:]) }

// IsZero reports whether id is the all-zero identifier.
func (id NodeID) IsZero() bool { return id == NodeID{} }

// NodeIDFromString parses the canonical ULID text form into a NodeID.
func NodeIDFromString(s string) (NodeID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return NodeID{}, &Error{Kind: KindInvalidID, Cause: err}
	}
	return NodeID(u), nil
}

// EdgeIDFromString parses the canonical ULID text form into an EdgeID.
func EdgeIDFromString(s string) (EdgeID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return EdgeID{}, &Error{Kind: KindInvalidID, Cause: err}
	}
	return EdgeID(u), nil
}

// IDGenerator produces monotonic, collision-resistant 128-bit identifiers.
// The zero value is not usable; construct with NewIDGenerator.
//
// Generation is out of the spec's core: any monotonic 128-bit source is an
// acceptable external collaborator. This wraps oklog/ulid's monotonic
// entropy source, which is the standard choice in the Go ecosystem.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator returns a ready-to-use, concurrency-safe ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewEdgeID allocates a fresh, monotonically-increasing EdgeID.
func (g *IDGenerator) NewEdgeID() EdgeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return EdgeID(ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy))
}

// NewNodeID allocates a fresh, monotonically-increasing NodeID. Most callers
// mint their own node identifiers (nodes are often user-domain keys), but
// this is offered for callers that want ULID-everywhere semantics.
func (g *IDGenerator) NewNodeID() NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return NodeID(ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy))
}
