package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pharmastore/m/internal/transfer"
)

var (
	exportStoreID        int64
	exportOut            string
	exportIncludeHistory bool
	exportStart          string
	exportEnd            string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a store's data to an export document",
	Long:  "Export every drug, sale, supplier and order list entry of a store, and optionally its history, as a JSON document. Use --out - to write to stdout.",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().Int64Var(&exportStoreID, "store-id", 0, "id of the store to export (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: generated name in the current directory)")
	exportCmd.Flags().BoolVar(&exportIncludeHistory, "include-history", false, "include the store's history entries")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "first history date to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "last history date to include (YYYY-MM-DD)")
	_ = exportCmd.MarkFlagRequired("store-id")
}

func runExport(cmd *cobra.Command, args []string) error {
	opts := transfer.ExportOptions{IncludeHistory: exportIncludeHistory}
	if exportStart != "" || exportEnd != "" {
		opts.DateRange = &transfer.DateRange{StartDate: exportStart, EndDate: exportEnd}
	}

	doc, err := application.Exporter.Build(cmd.Context(), exportStoreID, opts)
	if err != nil {
		return fmt.Errorf("export store %d: %w", exportStoreID, err)
	}

	path := exportOut
	if path == "" {
		path = transfer.Filename(doc.Store.Name, time.Now())
	}

	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := writeJSON(w, doc); err != nil {
		return err
	}

	if path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %q (%d records) to %s\n", doc.Store.Name, doc.Metadata.TotalRecords, path)
	}
	return nil
}
