package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pharmastore/m/internal/transfer"
)

const (
	outputText = "text"
	outputYAML = "yaml"
	outputJSON = "json"
)

var (
	checkFile   string
	checkOutput string
)

var errInvalidDocument = errors.New("document is invalid")

var validateCmd = &cobra.Command{
	Use:         "validate",
	Short:       "Check an export document without importing it",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOffline: "true"},
	RunE:        runValidate,
}

var previewCmd = &cobra.Command{
	Use:         "preview",
	Short:       "Summarize an export document",
	Long:        "Print the store name and record counts of an export document. The document is not validated.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationOffline: "true"},
	RunE:        runPreview,
}

func init() {
	for _, cmd := range []*cobra.Command{validateCmd, previewCmd} {
		cmd.Flags().StringVarP(&checkFile, "file", "f", "", "export document (required)")
		cmd.Flags().StringVarP(&checkOutput, "output", "o", outputText, "output format: text, yaml or json")
		_ = cmd.MarkFlagRequired("file")
	}
}

type validationReport struct {
	File    string                `json:"file" yaml:"file"`
	Valid   bool                  `json:"valid" yaml:"valid"`
	Summary *transfer.Summary     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Errors  []transfer.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(checkFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", checkFile, err)
	}

	report := validationReport{File: checkFile}
	result := application.Validator.Validate(raw)
	if result.OK() {
		summary, err := transfer.Summarize(raw)
		if err != nil {
			return err
		}
		report.Valid = true
		report.Summary = &summary
	} else {
		report.Errors = result.Errors
	}

	out := cmd.OutOrStdout()
	if checkOutput == outputText {
		if report.Valid {
			fmt.Fprintf(out, "%s: valid\n", checkFile)
			printSummary(out, *report.Summary)
		} else {
			fmt.Fprintf(out, "%s: %d error(s)\n", checkFile, len(report.Errors))
			for _, fe := range report.Errors {
				fmt.Fprintf(out, "  %s\n", fe)
			}
		}
	} else if err := render(out, report); err != nil {
		return err
	}

	if !report.Valid {
		return errInvalidDocument
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(checkFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", checkFile, err)
	}
	summary, err := transfer.Summarize(raw)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkOutput == outputText {
		printSummary(out, summary)
		return nil
	}
	return render(out, summary)
}

func printSummary(w io.Writer, s transfer.Summary) {
	fmt.Fprintf(w, "store:       %s\n", s.StoreName)
	if s.ExportDate != "" {
		fmt.Fprintf(w, "exported:    %s\n", s.ExportDate)
	}
	if s.Version != "" {
		fmt.Fprintf(w, "version:     %s\n", s.Version)
	}
	fmt.Fprintf(w, "drugs:       %d\n", s.Drugs)
	fmt.Fprintf(w, "sales:       %d\n", s.Sales)
	fmt.Fprintf(w, "suppliers:   %d\n", s.Suppliers)
	fmt.Fprintf(w, "order lists: %d\n", s.OrderLists)
	fmt.Fprintf(w, "history:     %d\n", s.History)
	fmt.Fprintf(w, "total:       %d\n", s.TotalRecords)
}

func render(w io.Writer, v any) error {
	switch checkOutput {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case outputJSON:
		return writeJSON(w, v)
	default:
		return fmt.Errorf("unknown output format %q", checkOutput)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
