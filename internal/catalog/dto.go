package catalog

// ImportReport summarizes the outcome of a catalog import.
type ImportReport struct {
	Added           int         `json:"added"`
	Updated         int         `json:"updated"`
	Deleted         int         `json:"deleted"`
	TotalInDB       int64       `json:"total_in_db"`
	TotalInFile     int         `json:"total_in_file"`
	DepartmentStats map[int]int `json:"department_stats"`
	SkippedRows     []string    `json:"skipped_rows,omitempty"`
}

// CountsMatch reports whether the database ended up with exactly the
// rows the file described.
func (r ImportReport) CountsMatch() bool {
	return r.TotalInDB == int64(r.TotalInFile)
}
