package catalog

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"stockroom-backend/pkg/db/models"
	pkgerrors "stockroom-backend/pkg/errors"
	"stockroom-backend/pkg/logger"
)

// ImportLockKey names the Redis mutex guarding catalog imports.
const ImportLockKey = "catalog:import"

var articleRe = regexp.MustCompile(`^(\d{8,})`)

// importRow is a parsed spreadsheet line keyed by its extracted article.
type importRow struct {
	Article    string
	Name       string
	Department int
	GroupLabel string
	StockQty   string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Importer replaces the product catalog from an uploaded spreadsheet.
type Importer struct {
	repo *Repository
	tx   txRunner
	lock ImportLock
	logg *logger.Logger
}

// NewImporter constructs a catalog importer.
func NewImporter(repo *Repository, tx txRunner, lock ImportLock, logg *logger.Logger) (*Importer, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if lock == nil {
		return nil, fmt.Errorf("import lock required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Importer{repo: repo, tx: tx, lock: lock, logg: logg}, nil
}

// Import parses the spreadsheet and reconciles the catalog against it:
// new articles are added, known ones updated, and articles absent from
// the file are removed. All reserved counters reset to zero because the
// file carries fresh stock figures. Exactly one import may run at a time.
func (i *Importer) Import(ctx context.Context, file io.Reader) (*ImportReport, error) {
	acquired, err := i.lock.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring import lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "another import is already running")
	}
	defer func() {
		if rerr := i.lock.Release(ctx); rerr != nil {
			i.logg.Error(ctx, "releasing import lock", rerr)
		}
	}()

	rows, skipped, err := parseImportFile(file)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		TotalInFile:     len(rows),
		DepartmentStats: map[int]int{},
		SkippedRows:     skipped,
	}

	err = i.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := i.repo.WithTx(tx)

		existing, err := repo.ListAll(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading catalog")
		}

		var toAdd []models.Product
		var toDelete []string

		for article := range existing {
			if _, ok := rows[article]; !ok {
				toDelete = append(toDelete, article)
			}
		}

		for article, row := range rows {
			if current, ok := existing[article]; ok {
				current.Name = row.Name
				current.Department = row.Department
				current.GroupLabel = row.GroupLabel
				current.StockQty = row.StockQty
				if err := repo.UpdateImported(ctx, current); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
				}
				report.Updated++
			} else {
				toAdd = append(toAdd, models.Product{
					Article:    article,
					Name:       row.Name,
					Department: row.Department,
					GroupLabel: row.GroupLabel,
					StockQty:   row.StockQty,
					IsActive:   true,
				})
			}
			report.DepartmentStats[row.Department]++
		}

		deleted, err := repo.DeleteByArticles(ctx, toDelete)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting stale products")
		}
		report.Deleted = int(deleted)

		if err := repo.CreateBatch(ctx, toAdd); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting products")
		}
		report.Added = len(toAdd)

		if err := repo.ResetAllReserved(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resetting reservations")
		}

		total, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
		}
		report.TotalInDB = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = i.logg.WithFields(ctx, map[string]any{
		"added":   report.Added,
		"updated": report.Updated,
		"deleted": report.Deleted,
		"total":   report.TotalInDB,
	})
	i.logg.Info(ctx, "catalog import completed")
	return report, nil
}

// parseImportFile reads the first sheet into article-keyed rows. The sheet
// carries a header row with department, group, name and quantity columns.
// Rows whose name has no leading article code are skipped, not fatal; rows
// with a malformed department accumulate into one validation error.
func parseImportFile(file io.Reader) (map[string]importRow, []string, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading spreadsheet")
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	raw, err := book.GetRows(sheet)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading sheet rows")
	}
	if len(raw) < 2 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet has no data rows")
	}

	cols := map[string]int{}
	for idx, header := range raw[0] {
		cols[strings.ToLower(strings.TrimSpace(header))] = idx
	}
	for _, required := range []string{"department", "group", "name", "quantity"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("spreadsheet is missing the %q column", required))
		}
	}

	rows := make(map[string]importRow)
	var skipped []string
	var rowErrs error

	for n, cells := range raw[1:] {
		line := n + 2 // 1-based plus header

		name := strings.TrimSpace(cell(cells, cols["name"]))
		if name == "" {
			continue
		}

		m := articleRe.FindStringSubmatch(name)
		if m == nil {
			skipped = append(skipped, fmt.Sprintf("row %d: %q has no article code", line, name))
			continue
		}

		department, err := strconv.Atoi(strings.TrimSpace(cell(cells, cols["department"])))
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: department must be a number", line))
			continue
		}

		rows[m[1]] = importRow{
			Article:    m[1],
			Name:       name,
			Department: department,
			GroupLabel: strings.TrimSpace(cell(cells, cols["group"])),
			StockQty:   normalizeStock(cell(cells, cols["quantity"])),
		}
	}

	if rowErrs != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, rowErrs, "import file contains invalid rows")
	}
	return rows, skipped, nil
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// normalizeStock standardizes a quantity cell into the text form the
// ledger stores: comma becomes point, stray characters drop, empty
// becomes "0". Parsing into a number stays deferred until commit time.
func normalizeStock(value string) string {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
