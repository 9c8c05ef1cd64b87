// Package main provides the graphkv CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphkv",
		Short: "graphkv - an embeddable labeled-property-graph triple store",
		Long: `graphkv manages a directed (subject, predicate, object) edge store backed
by three redundant ordered indexes, with an in-memory backend for tests
and small graphs and a BadgerDB-backed persistent backend for everything
else.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphkv v%s\n", version)
		},
	})
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
