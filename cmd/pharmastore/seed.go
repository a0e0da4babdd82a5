package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pharmastore/m/internal/seed"
)

var (
	seedStoreID int64
	seedCSV     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load drugs into a store from a CSV file",
	Long:  "Load drugs from a CSV file with the columns name, type, price, mrp, quantity, unitPerPackage, expiryDate and an optional batchNo. The first row is treated as a header.",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().Int64Var(&seedStoreID, "store-id", 0, "id of the store to load into (required)")
	seedCmd.Flags().StringVar(&seedCSV, "csv", "", "CSV file to load (required)")
	_ = seedCmd.MarkFlagRequired("store-id")
	_ = seedCmd.MarkFlagRequired("csv")
}

func runSeed(cmd *cobra.Command, args []string) error {
	var n int
	err := application.WithWriterLock(cmd.Context(), func() error {
		var err error
		n, err = seed.LoadDrugs(cmd.Context(), application.DB, application.Repo, seedStoreID, seedCSV, logger.Named("seed"))
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d drugs into store %d\n", n, seedStoreID)
	return nil
}
