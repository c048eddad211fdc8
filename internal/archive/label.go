package archive

import (
	"fmt"
	"time"
)

// FileName builds the archive label for a committed department list.
// The timestamp format matches the spreadsheet artifacts downstream
// consumers already expect: <department>_<DD-MM-YYYY_HH-MM>.xlsx.
func FileName(department int, at time.Time) string {
	return fmt.Sprintf("%d_%s.xlsx", department, at.Format("02-01-2006_15-04"))
}
