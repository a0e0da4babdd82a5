package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"pharmastore/m/domain"
)

// SupportedVersions lists the export document versions the validator accepts.
var SupportedVersions = []string{domain.ExportVersion}

var digitsPattern = regexp.MustCompile(`^\d+$`)

// The record types mirror the export format with pointer fields, so a missing
// key is distinguishable from a zero value. Struct tags are the schema.

type storeRecord struct {
	Name            *string `json:"name" validate:"required,nonblank"`
	ExportDate      *string `json:"exportDate" validate:"required,isodatetime"`
	Version         *string `json:"version" validate:"required,nonblank"`
	OriginalStoreID *int64  `json:"originalStoreId" validate:"required"`
}

type drugRecord struct {
	ID                    *int64   `json:"id" validate:"required"`
	MedicineName          *string  `json:"medicineName" validate:"required,nonblank"`
	Price                 *float64 `json:"price" validate:"required,gt=0"`
	MRP                   *float64 `json:"mrp" validate:"required,gt=0"`
	Quantity              *int64   `json:"quantity" validate:"required,min=0"`
	UnitPerPackage        *int64   `json:"unitPerPackage" validate:"required,min=1"`
	ExpiryDate            *string  `json:"expiryDate" validate:"required,nonblank"`
	MedicineType          *string  `json:"medicineType" validate:"required,nonblank"`
	RackNo                *string  `json:"rackNo"`
	BatchNo               *string  `json:"batchNo"`
	DistributorName       *string  `json:"distributorName"`
	PurchaseInvoiceNumber *string  `json:"purchaseInvoiceNumber"`
	CreatedAt             *string  `json:"createdAt"`
	UpdatedAt             *string  `json:"updatedAt"`
}

type saleRecord struct {
	ID             *int64   `json:"id" validate:"required"`
	MedicineID     *int64   `json:"medicineId" validate:"required"`
	MedicineName   *string  `json:"medicineName" validate:"required,nonblank"`
	Quantity       *int64   `json:"quantity" validate:"required,gt=0"`
	UnitPerPackage *int64   `json:"unitPerPackage" validate:"required,min=1"`
	Price          *float64 `json:"price" validate:"required,gt=0"`
	MRP            *float64 `json:"mrp" validate:"required,gt=0"`
	CreatedAt      *string  `json:"createdAt"`
	UpdatedAt      *string  `json:"updatedAt"`
}

type supplierRecord struct {
	ID           *int64  `json:"id"`
	SupplierName *string `json:"supplierName" validate:"required,nonblank"`
	Location     *string `json:"location" validate:"required,nonblank"`
	Phone        *string `json:"phone" validate:"required,len=10,digits"`
	CreatedAt    *string `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

type orderListRecord struct {
	ID           *int64  `json:"id" validate:"required"`
	SupplierName *string `json:"supplierName"`
	MedicineName *string `json:"medicineName" validate:"required,nonblank"`
	Quantity     *int64  `json:"quantity" validate:"required,gt=0"`
	CreatedAt    *string `json:"createdAt"`
	UpdatedAt    *string `json:"updatedAt"`
}

type historyRecord struct {
	ID        *int64  `json:"id" validate:"required"`
	Operation *string `json:"operation" validate:"required,nonblank"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

type metadataRecord struct {
	TotalRecords *int    `json:"totalRecords" validate:"required,min=0"`
	ExportedBy   *string `json:"exportedBy" validate:"required,nonblank"`
	AppVersion   *string `json:"appVersion"`
}

type envelope struct {
	Store      json.RawMessage `json:"store"`
	Drugs      json.RawMessage `json:"drugs"`
	Sales      json.RawMessage `json:"sales"`
	Suppliers  json.RawMessage `json:"suppliers"`
	OrderLists json.RawMessage `json:"orderLists"`
	History    json.RawMessage `json:"history"`
	Metadata   json.RawMessage `json:"metadata"`
}

// Result is the outcome of validating one document: either Document is set
// and Errors is empty, or Errors lists every violation found.
type Result struct {
	Document *domain.ExportDocument
	Errors   []FieldError
}

func (r Result) OK() bool {
	return r.Document != nil && len(r.Errors) == 0
}

// Validator checks untrusted export documents in two layers: per-record shape
// and type checks, then cross-document checks that only run on a well-shaped
// document.
type Validator struct {
	validate *validator.Validate
	versions map[string]struct{}
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	// UTC only, in the Z-suffixed form the exporter writes.
	_ = v.RegisterValidation("isodatetime", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if !strings.HasSuffix(value, "Z") {
			return false
		}
		_, err := time.Parse(time.RFC3339, value)
		return err == nil
	})

	versions := make(map[string]struct{}, len(SupportedVersions))
	for _, version := range SupportedVersions {
		versions[version] = struct{}{}
	}
	return &Validator{validate: v, versions: versions}
}

// ValidateValue validates an already-decoded value, such as a map produced by
// json.Unmarshal, by round-tripping it through JSON.
func (v *Validator) ValidateValue(value any) Result {
	raw, err := json.Marshal(value)
	if err != nil {
		return Result{Errors: []FieldError{{Field: rootField, Message: fmt.Sprintf("cannot be encoded as JSON: %v", err)}}}
	}
	return v.Validate(raw)
}

const rootField = "document"

// Validate checks raw against the export document schema.
func (v *Validator) Validate(raw []byte) Result {
	c := &collector{}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.add(rootField, "must be a JSON object")
		return Result{Errors: c.errors}
	}

	var store storeRecord
	storeOK := v.decodeObject(c, "store", env.Store, &store)

	drugs := decodeRecords[drugRecord](v, c, "drugs", env.Drugs)
	sales := decodeRecords[saleRecord](v, c, "sales", env.Sales)
	suppliers := decodeRecords[supplierRecord](v, c, "suppliers", env.Suppliers)
	orderLists := decodeRecords[orderListRecord](v, c, "orderLists", env.OrderLists)
	history := decodeRecords[historyRecord](v, c, "history", env.History)

	var meta metadataRecord
	metaOK := v.decodeObject(c, "metadata", env.Metadata, &meta)

	if len(c.errors) > 0 || !storeOK || !metaOK {
		return Result{Errors: c.errors}
	}

	doc := &domain.ExportDocument{
		Store: domain.StoreInfo{
			Name:            *store.Name,
			ExportDate:      *store.ExportDate,
			Version:         *store.Version,
			OriginalStoreID: *store.OriginalStoreID,
		},
		Drugs:      mapRecords(drugs, drugRecord.toDomain),
		Sales:      mapRecords(sales, saleRecord.toDomain),
		Suppliers:  mapRecords(suppliers, supplierRecord.toDomain),
		OrderLists: mapRecords(orderLists, orderListRecord.toDomain),
		History:    mapRecords(history, historyRecord.toDomain),
		Metadata: domain.ExportMetadata{
			TotalRecords: *meta.TotalRecords,
			ExportedBy:   *meta.ExportedBy,
			AppVersion:   deref(meta.AppVersion),
		},
	}

	v.checkStructure(c, doc)
	if len(c.errors) > 0 {
		return Result{Errors: c.errors}
	}
	return Result{Document: doc}
}

func (v *Validator) checkStructure(c *collector, doc *domain.ExportDocument) {
	if _, ok := v.versions[doc.Store.Version]; !ok {
		c.add("store.version", fmt.Sprintf("unsupported export version %q (supported: %s)", doc.Store.Version, strings.Join(SupportedVersions, ", ")))
	}

	if total := doc.CountRecords(); doc.Metadata.TotalRecords != total {
		c.add("metadata.totalRecords", fmt.Sprintf("declares %d records but the document contains %d", doc.Metadata.TotalRecords, total))
	}

	drugIndex := make(map[int64]int, len(doc.Drugs))
	for i, drug := range doc.Drugs {
		if first, dup := drugIndex[drug.ID]; dup {
			c.add(fmt.Sprintf("drugs[%d].id", i), fmt.Sprintf("duplicate drug id %d, first used by drugs[%d]", drug.ID, first))
			continue
		}
		drugIndex[drug.ID] = i
	}

	saleIndex := make(map[int64]int, len(doc.Sales))
	for i, sale := range doc.Sales {
		if first, dup := saleIndex[sale.ID]; dup {
			c.add(fmt.Sprintf("sales[%d].id", i), fmt.Sprintf("duplicate sale id %d, first used by sales[%d]", sale.ID, first))
		} else {
			saleIndex[sale.ID] = i
		}
		if _, ok := drugIndex[sale.MedicineID]; !ok {
			c.add(fmt.Sprintf("sales[%d].medicineId", i), fmt.Sprintf("references medicine id %d, which is not among the exported drugs", sale.MedicineID))
		}
	}
}

func decodeRecords[T any](v *Validator, c *collector, field string, raw json.RawMessage) []T {
	if isMissing(raw) {
		c.add(field, "is required")
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		c.add(field, "expected array, received "+jsonKind(raw))
		return nil
	}
	records := make([]T, len(elems))
	for i, elem := range elems {
		v.decodeObject(c, fmt.Sprintf("%s[%d]", field, i), elem, &records[i])
	}
	return records
}

// decodeObject decodes raw into dest one field at a time and runs the struct
// validations, recording every violation under path. A field whose JSON kind
// does not match is reported once and left nil. It reports whether dest is
// usable.
func (v *Validator) decodeObject(c *collector, path string, raw json.RawMessage, dest any) bool {
	if isMissing(raw) {
		c.add(path, "is required")
		return false
	}
	if kind := jsonKind(raw); kind != "object" {
		c.add(path, "expected object, received "+kind)
		return false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		c.add(path, "malformed object")
		return false
	}

	before := len(c.errors)
	mistyped := make(map[string]bool)
	rv := reflect.ValueOf(dest).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := jsonName(rt.Field(i))
		value, ok := fields[name]
		if name == "" || !ok {
			continue
		}
		target := rv.Field(i)
		if err := json.Unmarshal(value, target.Addr().Interface()); err != nil {
			target.Set(reflect.Zero(target.Type()))
			mistyped[name] = true
			c.add(path+"."+name, fmt.Sprintf("expected %s, received %s", expectedKind(target.Type()), jsonKind(value)))
		}
	}

	if err := v.validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.add(path, err.Error())
			return false
		}
		for _, fe := range verrs {
			if mistyped[fe.Field()] {
				continue
			}
			c.add(path+"."+fe.Field(), describe(fe))
		}
	}
	return len(c.errors) == before
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "nonblank":
		return "must not be empty"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "digits":
		return "must contain only digits"
	case "isodatetime":
		return "must be an ISO-8601 UTC datetime such as 2025-06-01T12:00:00.000Z"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func expectedKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

type collector struct {
	errors []FieldError
}

func (c *collector) add(field, message string) {
	c.errors = append(c.errors, FieldError{Field: field, Message: message})
}

func mapRecords[T, U any](records []T, fn func(T) U) []U {
	out := make([]U, len(records))
	for i, r := range records {
		out[i] = fn(r)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r drugRecord) toDomain() domain.Drug {
	return domain.Drug{
		ID:                    *r.ID,
		MedicineName:          *r.MedicineName,
		Price:                 *r.Price,
		MRP:                   *r.MRP,
		Quantity:              *r.Quantity,
		UnitPerPackage:        *r.UnitPerPackage,
		ExpiryDate:            *r.ExpiryDate,
		MedicineType:          *r.MedicineType,
		RackNo:                deref(r.RackNo),
		BatchNo:               deref(r.BatchNo),
		DistributorName:       deref(r.DistributorName),
		PurchaseInvoiceNumber: deref(r.PurchaseInvoiceNumber),
		CreatedAt:             deref(r.CreatedAt),
		UpdatedAt:             deref(r.UpdatedAt),
	}
}

func (r saleRecord) toDomain() domain.Sale {
	return domain.Sale{
		ID:             *r.ID,
		MedicineID:     *r.MedicineID,
		MedicineName:   *r.MedicineName,
		Quantity:       *r.Quantity,
		UnitPerPackage: *r.UnitPerPackage,
		Price:          *r.Price,
		MRP:            *r.MRP,
		CreatedAt:      deref(r.CreatedAt),
		UpdatedAt:      deref(r.UpdatedAt),
	}
}

func (r supplierRecord) toDomain() domain.Supplier {
	return domain.Supplier{
		ID:           r.ID,
		SupplierName: *r.SupplierName,
		Location:     *r.Location,
		Phone:        *r.Phone,
		CreatedAt:    deref(r.CreatedAt),
		UpdatedAt:    deref(r.UpdatedAt),
	}
}

func (r orderListRecord) toDomain() domain.OrderListEntry {
	return domain.OrderListEntry{
		ID:           *r.ID,
		SupplierName: deref(r.SupplierName),
		MedicineName: *r.MedicineName,
		Quantity:     *r.Quantity,
		CreatedAt:    deref(r.CreatedAt),
		UpdatedAt:    deref(r.UpdatedAt),
	}
}

func (r historyRecord) toDomain() domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:        *r.ID,
		Operation: *r.Operation,
		CreatedAt: deref(r.CreatedAt),
		UpdatedAt: deref(r.UpdatedAt),
	}
}
