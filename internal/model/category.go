package model

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// BasicField describes one fixed column of the users table as reported by
// information_schema, so clients can introspect the built-in attributes.
type BasicField struct {
	ColumnName string `db:"column_name" json:"column_name"`
	DataType   string `db:"data_type" json:"data_type"`
}
