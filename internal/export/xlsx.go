package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/profile-cli/internal/model"
)

// FlattenXLSX writes the batch as a single-sheet workbook with the same
// column layout as the CSV export.
func FlattenXLSX(records []model.ProfileRecord, path string) error {
	maxLinked := MaxLinkedAccounts(records)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("profiles")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	writeXLSXRow(sheet, Header(maxLinked))
	for _, rec := range records {
		writeXLSXRow(sheet, Row(rec, maxLinked))
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func writeXLSXRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}
