package transfer

import (
	"errors"
	"fmt"
)

var (
	ErrStoreNameRequired = errors.New("store name is required")
	ErrNilDocument       = errors.New("export document is nil")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// FieldError is one validation violation. Field is a path into the document
// such as "sales[3].medicineId" or "metadata.totalRecords".
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ParseError reports import input that is not JSON at all.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid file: not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError carries every violation found in a rejected document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "export document failed validation"
	}
	return fmt.Sprintf("export document failed validation with %d error(s), first: %s", len(e.Errors), e.Errors[0])
}

// ImportError reports a failed import. Nothing from the attempt was persisted.
type ImportError struct {
	Phase Phase
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed during %s phase: %v", e.Phase, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
