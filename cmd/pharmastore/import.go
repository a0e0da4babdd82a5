package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pharmastore/m/internal/transfer"
)

var (
	importName string
	importFile string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a new store from an export document",
	Long:  "Validate an export document and import it as a new store. Nothing is written unless the whole document imports.",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importName, "name", "n", "", "name of the store to create (required)")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "export document to import (required)")
	_ = importCmd.MarkFlagRequired("name")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", importFile, err)
	}

	stderr := cmd.ErrOrStderr()
	progress := func(p transfer.Progress) {
		fmt.Fprintf(stderr, "[%d/%d] %s\n", p.Current, p.Total, p.Message)
	}

	var result *transfer.ImportResult
	err = application.WithWriterLock(cmd.Context(), func() error {
		var err error
		result, err = application.Importer.ImportJSON(cmd.Context(), importName, raw, progress)
		return err
	})

	var validationErr *transfer.ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Errors {
			fmt.Fprintf(stderr, "  %s\n", fe)
		}
	}
	if err != nil {
		return err
	}

	s := result.Summary
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported store %q as id %d\n", importName, result.StoreID)
	fmt.Fprintf(out, "  drugs:       %d\n", s.DrugsImported)
	fmt.Fprintf(out, "  sales:       %d\n", s.SalesImported)
	fmt.Fprintf(out, "  suppliers:   %d\n", s.SuppliersImported)
	fmt.Fprintf(out, "  order lists: %d\n", s.OrderListsImported)
	fmt.Fprintf(out, "  history:     %d\n", s.HistoryImported)
	if s.SalesSkipped > 0 {
		fmt.Fprintf(out, "  skipped sales with unknown medicine: %d\n", s.SalesSkipped)
	}
	return nil
}
