// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reviewer-conflicts/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the coauthor graph to YAML or JSON",
	Long: `Export writes the saved coauthor graph to a YAML or JSON document. Every
window year is listed for every reviewer, with an empty list when no
coauthor was found. The default path is <data-dir>/coauthors.<format>; a
path ending in .json is written as JSON, any other as YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace the coauthor graph with a YAML or JSON export",
	Long: `Import reads a document written by export (format chosen by file
extension) and saves it as the current coauthor graph.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	reviewers, run, err := s.Load(context.Background())
	if err != nil {
		return err
	}

	path, f, err := exportTarget(s, args, store.Format(format), cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}
	if err := store.WriteDocument(path, f, store.NewDocument(run, reviewers)); err != nil {
		return err
	}
	fmt.Printf("Exported %d reviewers to %s\n", len(reviewers), path)
	return nil
}

// exportTarget picks the output path and format. An explicit path decides
// the format unless --format was given, and a format that disagrees with
// the path's extension is rejected because import decodes by extension.
func exportTarget(s *store.Store, args []string, format store.Format, formatSet bool) (string, store.Format, error) {
	if len(args) == 0 {
		return s.ExportPath(format), format, nil
	}
	path := args[0]
	byExt := store.FormatFor(path)
	if !formatSet {
		return path, byExt, nil
	}
	if format != byExt {
		return "", "", fmt.Errorf("format %q does not match the extension of %s", format, path)
	}
	return path, format, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	doc, err := store.ReadDocument(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	// The import is a new run; the document's provenance fields are kept.
	doc.Run.ID = ""
	doc.Run.CreatedAt = time.Time{}

	reviewers := doc.Identities()
	run, err := s.Save(context.Background(), doc.Run, reviewers)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d reviewers as run %s\n", len(reviewers), run.ID)
	return nil
}
