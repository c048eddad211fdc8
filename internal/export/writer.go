package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	pkgerrors "stockroom-backend/pkg/errors"
)

// SurplusPrefix marks spreadsheet files holding unfulfilled remainders.
const SurplusPrefix = "surplus_"

// Line is one spreadsheet row.
type Line struct {
	Article  string
	Quantity decimal.Decimal
}

// Writer renders committed line sets into two-column spreadsheets, the
// artifact downstream warehouse tooling picks up.
type Writer struct {
	dir string
}

// NewWriter builds a writer storing files under dir.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// WriteLines renders the lines into <dir>/<fileName> and returns the path.
func (w *Writer) WriteLines(fileName string, lines []Line) (string, error) {
	if fileName == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file name required")
	}
	if len(lines) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "nothing to export")
	}

	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)

	if err := book.SetSheetRow(sheet, "A1", &[]any{"Article", "Quantity"}); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing header")
	}
	for i, line := range lines {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "addressing row")
		}
		row := []any{line.Article, line.Quantity.String()}
		if err := book.SetSheetRow(sheet, cellName, &row); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing row")
		}
	}

	path := filepath.Join(w.dir, fileName)
	if err := book.SaveAs(path); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving spreadsheet")
	}
	return path, nil
}
