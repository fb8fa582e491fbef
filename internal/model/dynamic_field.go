package model

const (
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
)

// ValidFieldType reports whether t is one of the closed set of field types.
func ValidFieldType(t string) bool {
	return t == FieldTypeText || t == FieldTypeNumber || t == FieldTypeDate
}

type DynamicField struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	FieldType  string `db:"field_type" json:"field_type"`
	IsRequired bool   `db:"is_required" json:"is_required"`
}

// DynamicValue is one filled-in dynamic attribute on a submission. The value
// is stored as text regardless of the field's declared type.
type DynamicValue struct {
	DynamicFieldID int64  `db:"dynamic_field_id" json:"dynamic_field_id"`
	Value          string `db:"value" json:"value"`
}

// DynamicFieldCell is the per-user view of a stored dynamic value joined with
// its field definition, as rendered in search results.
type DynamicFieldCell struct {
	FieldName  string `json:"fieldName"`
	FieldValue string `json:"fieldValue"`
	FieldType  string `json:"fieldType"`
}
