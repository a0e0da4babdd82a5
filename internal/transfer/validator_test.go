package transfer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmastore/m/internal/testutil"
)

func scenarioJSON(t *testing.T) map[string]any {
	t.Helper()
	raw, err := json.Marshal(testutil.ScenarioDocument())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func fields(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateScenarioDocument(t *testing.T) {
	result := NewValidator().Validate(encode(t, scenarioJSON(t)))

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	doc := result.Document
	require.Len(t, doc.Drugs, 1)
	require.Len(t, doc.Sales, 1)
	assert.Equal(t, "Paracetamol", doc.Drugs[0].MedicineName)
	assert.Equal(t, int64(1), doc.Sales[0].MedicineID)
	assert.Empty(t, doc.Suppliers)
	assert.Equal(t, 2, doc.Metadata.TotalRecords)
}

func TestValidateRejectsUnknownMedicineReference(t *testing.T) {
	doc := scenarioJSON(t)
	doc["sales"] = []any{
		map[string]any{"id": 1, "medicineId": 1, "medicineName": "Paracetamol", "quantity": 5, "unitPerPackage": 10, "price": 2, "mrp": 3},
		map[string]any{"id": 2, "medicineId": 42, "medicineName": "Ghost", "quantity": 1, "unitPerPackage": 10, "price": 2, "mrp": 3},
	}
	doc["metadata"].(map[string]any)["totalRecords"] = 3

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Equal(t, []string{"sales[1].medicineId"}, fields(result.Errors))
	assert.Contains(t, result.Errors[0].Message, "42")
}

func TestValidateRejectsCountMismatch(t *testing.T) {
	doc := scenarioJSON(t)
	doc["metadata"].(map[string]any)["totalRecords"] = 5

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Equal(t, []string{"metadata.totalRecords"}, fields(result.Errors))
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	doc := scenarioJSON(t)
	drug := doc["drugs"].([]any)[0]
	sale := doc["sales"].([]any)[0]
	doc["drugs"] = []any{drug, drug}
	doc["sales"] = []any{sale, sale}
	doc["metadata"].(map[string]any)["totalRecords"] = 4

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Equal(t, []string{"drugs[1].id", "sales[1].id"}, fields(result.Errors))
}

func TestValidateRejectsUnsupportedVersion(t *testing.T) {
	doc := scenarioJSON(t)
	doc["store"].(map[string]any)["version"] = "2.0.0"

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Equal(t, []string{"store.version"}, fields(result.Errors))
}

func TestValidateCollectsAllShapeErrors(t *testing.T) {
	doc := scenarioJSON(t)
	doc["store"].(map[string]any)["exportDate"] = "yesterday"
	doc["drugs"] = []any{map[string]any{
		"id": 1, "medicineName": " ", "price": 0, "mrp": 3, "quantity": -1,
		"unitPerPackage": 10, "expiryDate": "2026-01-01", "medicineType": "Tablet",
	}}
	doc["suppliers"] = []any{
		map[string]any{"supplierName": "Acme", "location": "Pune", "phone": "12345"},
		map[string]any{"supplierName": "Beta", "location": "Pune", "phone": "12345abcde"},
	}
	doc["orderLists"] = []any{map[string]any{"id": 1, "medicineName": "Cetirizine", "quantity": 2.5}}
	delete(doc, "history")
	doc["metadata"].(map[string]any)["totalRecords"] = 99

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.ElementsMatch(t, []string{
		"store.exportDate",
		"drugs[0].medicineName",
		"drugs[0].price",
		"drugs[0].quantity",
		"suppliers[0].phone",
		"suppliers[1].phone",
		"orderLists[0].quantity",
		"history",
	}, fields(result.Errors))
	// cross-document checks only run on a well-shaped document
	assert.NotContains(t, fields(result.Errors), "metadata.totalRecords")
}

func TestValidateTypeErrors(t *testing.T) {
	doc := scenarioJSON(t)
	doc["drugs"].([]any)[0].(map[string]any)["price"] = "two"
	doc["sales"] = "none"

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Equal(t, []FieldError{
		{Field: "drugs[0].price", Message: "expected number, received string"},
		{Field: "sales", Message: "expected array, received string"},
	}, result.Errors)
}

func TestValidateMissingFields(t *testing.T) {
	doc := scenarioJSON(t)
	delete(doc["drugs"].([]any)[0].(map[string]any), "expiryDate")
	doc["sales"] = []any{nil}
	delete(doc, "metadata")

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Equal(t, []FieldError{
		{Field: "drugs[0].expiryDate", Message: "is required"},
		{Field: "sales[0]", Message: "is required"},
		{Field: "metadata", Message: "is required"},
	}, result.Errors)
}

func TestValidateOptionalSupplierID(t *testing.T) {
	doc := scenarioJSON(t)
	doc["suppliers"] = []any{map[string]any{"supplierName": "Acme", "location": "Pune", "phone": "9876543210"}}
	doc["metadata"].(map[string]any)["totalRecords"] = 3

	result := NewValidator().Validate(encode(t, doc))

	require.True(t, result.OK(), "unexpected errors: %v", result.Errors)
	assert.Nil(t, result.Document.Suppliers[0].ID)
}

func TestValidateNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `42`, `not json`} {
		result := NewValidator().Validate([]byte(raw))
		require.False(t, result.OK(), raw)
		assert.Equal(t, []string{"document"}, fields(result.Errors), raw)
	}
}

func TestValidateValue(t *testing.T) {
	result := NewValidator().ValidateValue(scenarioJSON(t))
	assert.True(t, result.OK())

	result = NewValidator().ValidateValue(make(chan int))
	assert.False(t, result.OK())
}

func TestValidateReportsEveryMistypedField(t *testing.T) {
	doc := scenarioJSON(t)
	drug := doc["drugs"].([]any)[0].(map[string]any)
	drug["quantity"] = "lots"
	drug["medicineType"] = 7
	drug["price"] = "two"
	drug["mrp"] = "three"

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.ElementsMatch(t, []FieldError{
		{Field: "drugs[0].price", Message: "expected number, received string"},
		{Field: "drugs[0].mrp", Message: "expected number, received string"},
		{Field: "drugs[0].quantity", Message: "expected integer, received string"},
		{Field: "drugs[0].medicineType", Message: "expected string, received number"},
	}, result.Errors)
}

func TestValidateMistypedFieldIsNotTreatedAsZero(t *testing.T) {
	doc := scenarioJSON(t)
	doc["drugs"].([]any)[0].(map[string]any)["quantity"] = "lots"

	result := NewValidator().Validate(encode(t, doc))

	require.False(t, result.OK())
	assert.Nil(t, result.Document)
	assert.Equal(t, []string{"drugs[0].quantity"}, fields(result.Errors))
}

func TestValidateExportDateMustBeUTC(t *testing.T) {
	for _, date := range []string{"2025-06-01T12:00:00+05:30", "2025-06-01T12:00:00", "2025-06-01"} {
		doc := scenarioJSON(t)
		doc["store"].(map[string]any)["exportDate"] = date

		result := NewValidator().Validate(encode(t, doc))

		require.False(t, result.OK(), date)
		assert.Equal(t, []string{"store.exportDate"}, fields(result.Errors), date)
	}

	doc := scenarioJSON(t)
	doc["store"].(map[string]any)["exportDate"] = "2025-06-01T12:00:00Z"
	assert.True(t, NewValidator().Validate(encode(t, doc)).OK())
}
