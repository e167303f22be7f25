package sheetcsv

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// csvExt is appended to every output file name.
const csvExt = ".csv"

// FileName derives the output name for one sheet. A named source loses its
// extension and gains "-<sheet>.csv" ("report.xlsx", "Q1" gives
// "report-Q1.csv"). An unnamed source gets a random "<uuid>.csv".
func FileName(sourceName, sheetName string) string {
	if sourceName == "" {
		return uuid.NewString() + csvExt
	}
	return stripExt(sourceName) + "-" + sheetName + csvExt
}

// stripExt removes the text after the final dot of the base name, together
// with the dot.
func stripExt(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(name, ext)
}
