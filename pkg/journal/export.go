package journal

import (
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/odvcencio/tradelog/pkg/errors"
)

// ExportSheet is the worksheet ExportXLSX writes.
const ExportSheet = "Journal"

var exportColumns = []string{"ID", "Date", "Symbol", "Strategy", "Portfolio"}

// ExportXLSX writes entries to a workbook at path, one row per entry. Field
// columns follow the fixed columns in first-seen label order.
func ExportXLSX(entries []*Entry, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return exportError(err, path)
	}

	var labels []string
	for _, e := range entries {
		for _, field := range e.Fields {
			if !slices.Contains(labels, field.Label) {
				labels = append(labels, field.Label)
			}
		}
	}

	header := make([]any, 0, len(exportColumns)+len(labels))
	for _, c := range exportColumns {
		header = append(header, c)
	}
	for _, l := range labels {
		header = append(header, l)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return exportError(err, path)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return exportError(err, path)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return exportError(err, path)
	}
	if err := f.SetCellStyle(ExportSheet, "A1", last, bold); err != nil {
		return exportError(err, path)
	}

	for i, e := range entries {
		row := []any{e.ID, e.Date.Format("2006-01-02 15:04"), e.Symbol, e.Strategy, e.Portfolio}
		for _, l := range labels {
			v, _ := e.Field(l)
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return exportError(err, path)
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return exportError(err, path)
		}
	}

	if err := f.SetColWidth(ExportSheet, "A", "A", 28); err != nil {
		return exportError(err, path)
	}
	if err := f.SaveAs(path); err != nil {
		return exportError(err, path)
	}
	return nil
}

func exportError(err error, path string) error {
	return errors.Wrap(err, errors.ErrCodeExportFailed, "export workbook").WithContext("path", path)
}
