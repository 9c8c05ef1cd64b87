package main

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"gopkg.in/yaml.v3"

	"github.com/ternarystore/graphkv/pkg/store"
)

// Props is the CLI's node/edge property type: a freeform string-keyed
// map, matching the default JSON codec's round-trip shape. A library
// caller embedding the store would normally use a concrete struct
// instead (store.Store is generic precisely so they can).
type Props = map[string]any

// Document is the bulk load/export format: nodes keyed by their ULID
// string, and edges listing (subject, predicate, object) by ULID string
// plus properties.
type Document struct {
	Nodes map[string]Props `yaml:"nodes"`
	Edges []EdgeDocument   `yaml:"edges"`
}

// EdgeDocument is one edge entry in a Document.
type EdgeDocument struct {
	Sub   string `yaml:"sub"`
	Pred  string `yaml:"pred"`
	Obj   string `yaml:"obj"`
	Props Props  `yaml:"props"`
}

func openStore(dataDir string) (*store.Store[Props, Props], *badger.DB, error) {
	db, err := store.OpenBadger(store.BadgerOptions{DataDir: dataDir})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	s := store.NewBadgerStore[Props, Props](
		db,
		store.JSONCodec[Props](),
		store.JSONCodec[Props](),
		store.LastWriterWins[Props](),
		store.LastWriterWins[Props](),
	)
	return s, db, nil
}

func loadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

func applyDocument(s *store.Store[Props, Props], doc *Document) (nodes, edges int, err error) {
	for idStr, props := range doc.Nodes {
		id, err := store.NodeIDFromString(idStr)
		if err != nil {
			return nodes, edges, fmt.Errorf("node id %q: %w", idStr, err)
		}
		if err := s.InsertNode(id, props); err != nil {
			return nodes, edges, fmt.Errorf("inserting node %s: %w", idStr, err)
		}
		nodes++
	}
	for _, e := range doc.Edges {
		sub, err := store.NodeIDFromString(e.Sub)
		if err != nil {
			return nodes, edges, fmt.Errorf("edge subject %q: %w", e.Sub, err)
		}
		pred, err := store.NodeIDFromString(e.Pred)
		if err != nil {
			return nodes, edges, fmt.Errorf("edge predicate %q: %w", e.Pred, err)
		}
		obj, err := store.NodeIDFromString(e.Obj)
		if err != nil {
			return nodes, edges, fmt.Errorf("edge object %q: %w", e.Obj, err)
		}
		t := store.Triple{Sub: sub, Pred: pred, Obj: obj}
		if err := s.InsertEdge(t, e.Props); err != nil {
			return nodes, edges, fmt.Errorf("inserting edge %s/%s/%s: %w", e.Sub, e.Pred, e.Obj, err)
		}
		edges++
	}
	return nodes, edges, nil
}

// collectDocument walks the full store in SPO order and renders it back
// into the bulk-load format, the inverse of applyDocument.
func collectDocument(s *store.Store[Props, Props]) (*Document, error) {
	doc := &Document{Nodes: make(map[string]Props)}
	for entry, err := range s.IterVertices() {
		if err != nil {
			return nil, fmt.Errorf("iterating nodes: %w", err)
		}
		doc.Nodes[entry.ID.String()] = entry.Props
	}
	for entry, err := range s.IterEdges(store.SPO) {
		if err != nil {
			return nil, fmt.Errorf("iterating edges: %w", err)
		}
		doc.Edges = append(doc.Edges, EdgeDocument{
			Sub:   entry.Triple.Sub.String(),
			Pred:  entry.Triple.Pred.String(),
			Obj:   entry.Triple.Obj.String(),
			Props: entry.Props,
		})
	}
	return doc, nil
}
