package model

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Gender    string    `db:"gender" json:"gender"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SearchResult is one row of the filtered search query, with the category
// name resolved transitively through the user's dynamic values. Users with no
// dynamic data resolve to an empty category.
type SearchResult struct {
	ID            int64              `db:"id" json:"id"`
	Name          string             `db:"name" json:"name"`
	Age           int                `db:"age" json:"age"`
	Gender        string             `db:"gender" json:"gender"`
	Email         string             `db:"email" json:"email"`
	Address       string             `db:"address" json:"address"`
	Category      string             `db:"category" json:"category"`
	DynamicFields []DynamicFieldCell `json:"dynamic_fields"`
}
