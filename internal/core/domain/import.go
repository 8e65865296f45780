package domain

import "fmt"

// ImportRowError describes why a single CSV row was rejected during a bulk
// import. Row is the 1-based data row number, excluding the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ImportResult summarizes a successful bulk import.
type ImportResult struct {
	EntriesCreated int `json:"entriesCreated"`
	RowsRead       int `json:"rowsRead"`
}
