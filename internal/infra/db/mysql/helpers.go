package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// nullIfBlank NULL kalau string kosong/whitespace
func nullIfBlank(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonList encode slice jadi kolom JSON, nil jadi []
func jsonList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}
