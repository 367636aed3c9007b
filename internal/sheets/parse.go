package sheets

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/intel-relay/internal/model"
)

// parseCSV reads delimited text, treating the first row as the header. Each
// subsequent row becomes a SheetRow keyed by header cell; short rows are
// padded with "" and cells beyond the header are dropped.
func parseCSV(r io.Reader) ([]model.SheetRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []model.SheetRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, rowFromCells(header, record))
	}

	return rows, nil
}

// parseXLSX parses a binary workbook. Only the first worksheet (by sheet
// order, not by name) is read; its first row is the header.
func parseXLSX(data []byte) ([]model.SheetRow, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := cellStrings(sheet.Rows[0])
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	var rows []model.SheetRow
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowFromCells(header, cellStrings(row)))
	}

	return rows, nil
}

func cellStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

func rowFromCells(header, cells []string) model.SheetRow {
	row := make(model.SheetRow, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		if i < len(cells) {
			row[key] = cells[i]
		} else {
			row[key] = ""
		}
	}
	return row
}
