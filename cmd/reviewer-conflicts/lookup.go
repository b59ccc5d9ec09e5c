// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <author name>",
	Short: "List reviewers who co-published with an author",
	Long: `Lookup queries the saved coauthor graph for an exact DBLP author string
and prints every reviewer who co-published with that author, with the
window years in which they did.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	author := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	hits, err := s.CoauthorsOf(context.Background(), author)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Printf("No reviewer co-published with %s.\n", author)
		return nil
	}

	keys := make([]string, 0, len(hits))
	for k := range hits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(os.Stdout, "%s: %v\n", k, hits[k])
	}
	return nil
}
