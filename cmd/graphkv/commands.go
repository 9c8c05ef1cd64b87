package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ternarystore/graphkv/pkg/store"
)

func newLoadCmd() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Bulk-load nodes and edges from a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			s, db, err := openStore(dataDir)
			if err != nil {
				return err
			}
			defer db.Close()
			defer s.Close()

			nodes, edges, err := applyDocument(s, doc)
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d nodes, %d edges\n", nodes, edges)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Badger data directory")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report node and edge counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, db, err := openStore(dataDir)
			if err != nil {
				return err
			}
			defer db.Close()
			defer s.Close()

			st, err := s.Stats()
			if err != nil {
				return fmt.Errorf("computing stats: %w", err)
			}
			fmt.Printf("nodes: %d\nedges: %d\n", st.NodeCount, st.EdgeCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Badger data directory")
	return cmd
}

func newExportCmd() *cobra.Command {
	var dataDir string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the store to a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, db, err := openStore(dataDir)
			if err != nil {
				return err
			}
			defer db.Close()
			defer s.Close()

			doc, err := collectDocument(s)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(doc)
			if err != nil {
				return fmt.Errorf("encoding document: %w", err)
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", args[0], err)
			}
			fmt.Printf("exported %d nodes, %d edges to %s\n", len(doc.Nodes), len(doc.Edges), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Badger data directory")
	return cmd
}

// newQueryCmd evaluates one of the closed query shapes (spec.md §4.E)
// against a persistent store. Exactly one of --subject/--predicate/--object
// must be set for S/P/O; pairs combine two of them for SP/PO/SO.
func newQueryCmd() *cobra.Command {
	var dataDir, sub, pred, obj string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Evaluate a triple-pattern query",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, db, err := openStore(dataDir)
			if err != nil {
				return err
			}
			defer db.Close()
			defer s.Close()

			q, err := buildQuery(sub, pred, obj)
			if err != nil {
				return err
			}
			result, err := s.Query(q)
			if err != nil {
				return fmt.Errorf("evaluating query: %w", err)
			}
			for _, e := range result.Edges {
				fmt.Printf("%s %s %s -> %v\n", e.Triple.Sub, e.Triple.Pred, e.Triple.Obj, e.Props)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Badger data directory")
	cmd.Flags().StringVar(&sub, "subject", "", "Known subject ULID")
	cmd.Flags().StringVar(&pred, "predicate", "", "Known predicate ULID")
	cmd.Flags().StringVar(&obj, "object", "", "Known object ULID")
	return cmd
}

func buildQuery(sub, pred, obj string) (store.Query, error) {
	var s, p, o store.NodeID
	var hasS, hasP, hasO bool
	var err error
	if sub != "" {
		if s, err = store.NodeIDFromString(sub); err != nil {
			return store.Query{}, fmt.Errorf("subject: %w", err)
		}
		hasS = true
	}
	if pred != "" {
		if p, err = store.NodeIDFromString(pred); err != nil {
			return store.Query{}, fmt.Errorf("predicate: %w", err)
		}
		hasP = true
	}
	if obj != "" {
		if o, err = store.NodeIDFromString(obj); err != nil {
			return store.Query{}, fmt.Errorf("object: %w", err)
		}
		hasO = true
	}

	switch {
	case hasS && hasP && hasO:
		return store.QueryEdgeProperty(store.Triple{Sub: s, Pred: p, Obj: o}), nil
	case hasS && hasP:
		return store.QuerySP(store.SPPair{Sub: s, Pred: p}), nil
	case hasP && hasO:
		return store.QueryPO(store.POPair{Pred: p, Obj: o}), nil
	case hasS && hasO:
		return store.QuerySO(store.SOPair{Sub: s, Obj: o}), nil
	case hasS:
		return store.QueryS(s), nil
	case hasP:
		return store.QueryP(p), nil
	case hasO:
		return store.QueryO(o), nil
	default:
		return store.Query{}, fmt.Errorf("at least one of --subject, --predicate, --object is required")
	}
}
