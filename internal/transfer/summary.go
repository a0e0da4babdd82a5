package transfer

import (
	"encoding/json"
	"errors"
)

// FallbackStoreName is reported when a document carries no usable store name.
const FallbackStoreName = "Unknown Store"

// Summary is a quick preview of an export document.
type Summary struct {
	StoreName    string `json:"storeName" yaml:"storeName"`
	ExportDate   string `json:"exportDate,omitempty" yaml:"exportDate,omitempty"`
	Version      string `json:"version,omitempty" yaml:"version,omitempty"`
	Drugs        int    `json:"drugs" yaml:"drugs"`
	Sales        int    `json:"sales" yaml:"sales"`
	Suppliers    int    `json:"suppliers" yaml:"suppliers"`
	OrderLists   int    `json:"orderLists" yaml:"orderLists"`
	History      int    `json:"history" yaml:"history"`
	TotalRecords int    `json:"totalRecords" yaml:"totalRecords"`
}

// Summarize extracts counts and the store name without validating the
// document. Missing or mistyped sections count as empty. Only input that is
// not JSON at all is an error.
func Summarize(raw []byte) (Summary, error) {
	var env struct {
		Store struct {
			Name       string `json:"name"`
			ExportDate string `json:"exportDate"`
			Version    string `json:"version"`
		} `json:"store"`
		Drugs      json.RawMessage `json:"drugs"`
		Sales      json.RawMessage `json:"sales"`
		Suppliers  json.RawMessage `json:"suppliers"`
		OrderLists json.RawMessage `json:"orderLists"`
		History    json.RawMessage `json:"history"`
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return Summary{}, &ParseError{Err: err}
		}
	}

	s := Summary{
		StoreName:  env.Store.Name,
		ExportDate: env.Store.ExportDate,
		Version:    env.Store.Version,
		Drugs:      countElements(env.Drugs),
		Sales:      countElements(env.Sales),
		Suppliers:  countElements(env.Suppliers),
		OrderLists: countElements(env.OrderLists),
		History:    countElements(env.History),
	}
	if s.StoreName == "" {
		s.StoreName = FallbackStoreName
	}
	s.TotalRecords = s.Drugs + s.Sales + s.Suppliers + s.OrderLists + s.History
	return s, nil
}

func countElements(raw json.RawMessage) int {
	if isMissing(raw) {
		return 0
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return 0
	}
	return len(elems)
}
