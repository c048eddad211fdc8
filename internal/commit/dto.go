package commit

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one split portion of a requested working list line.
type Line struct {
	ProductID uuid.UUID       `json:"product_id"`
	Article   string          `json:"article"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Result reports what a commit produced. Fulfillable lines were reserved
// and archived; surplus lines are the unreservable remainders, returned
// for the caller to act on but never counted against stock.
type Result struct {
	Fulfillable []Line     `json:"fulfillable"`
	Surplus     []Line     `json:"surplus"`
	Department  *int       `json:"department,omitempty"`
	ArchiveID   *uuid.UUID `json:"archive_id,omitempty"`
	FileName    string     `json:"file_name,omitempty"`
}

// Empty reports whether the commit was a no-op on an empty list.
func (r *Result) Empty() bool {
	return len(r.Fulfillable) == 0 && len(r.Surplus) == 0
}
