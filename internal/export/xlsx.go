package export

import (
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// WriteXLSX writes the leads as a single-sheet workbook with the same
// columns as the CSV export.
func WriteXLSX(w io.Writer, leads []model.Lead, now time.Time) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, h := range csvHeaders {
		header.AddCell().Value = h
	}
	for _, l := range leads {
		row := sheet.AddRow()
		for _, v := range csvRow(l, now) {
			row.AddCell().Value = v
		}
	}
	return eris.Wrap(file.Write(w), "export: write xlsx")
}
