package sink

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// XLSX appends leads to a sheet in a local workbook, creating the workbook,
// sheet and header row as needed.
type XLSX struct {
	path  string
	sheet string
	mu    sync.Mutex
}

// NewXLSX creates an XLSX sink writing to sheet in the workbook at path.
func NewXLSX(path, sheet string) *XLSX {
	if sheet == "" {
		sheet = "Leads"
	}
	return &XLSX{path: path, sheet: sheet}
}

// Name implements Sink.
func (x *XLSX) Name() string { return "xlsx" }

// AppendRows implements Sink.
func (x *XLSX) AppendRows(ctx context.Context, leads []model.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	file, sheet, err := x.open()
	if err != nil {
		return err
	}
	ensureHeader(sheet)

	for _, lead := range leads {
		writeRow(sheet.AddRow(), lead.Row())
	}

	if err := file.Save(x.path); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}

	zap.L().Info("xlsx: appended leads",
		zap.String("path", x.path),
		zap.Int("rows", len(leads)),
	)
	return nil
}

// Clear removes every data row, keeping the header.
func (x *XLSX) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	file, sheet, err := x.open()
	if err != nil {
		return err
	}
	ensureHeader(sheet)
	sheet.Rows = sheet.Rows[:1]
	sheet.MaxRow = 1

	if err := file.Save(x.path); err != nil {
		return eris.Wrap(err, "xlsx: save workbook")
	}
	zap.L().Info("xlsx: cleared sheet", zap.String("path", x.path), zap.String("sheet", x.sheet))
	return nil
}

// open loads the workbook, or starts a new one when the file does not exist.
func (x *XLSX) open() (*xlsx.File, *xlsx.Sheet, error) {
	var file *xlsx.File
	if _, err := os.Stat(x.path); errors.Is(err, os.ErrNotExist) {
		file = xlsx.NewFile()
	} else {
		file, err = xlsx.OpenFile(x.path)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "xlsx: open %s", x.path)
		}
	}

	if sheet, ok := file.Sheet[x.sheet]; ok {
		return file, sheet, nil
	}
	sheet, err := file.AddSheet(x.sheet)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "xlsx: add sheet %s", x.sheet)
	}
	return file, sheet, nil
}

// ensureHeader makes LeadColumns the first row of sheet.
func ensureHeader(sheet *xlsx.Sheet) {
	if len(sheet.Rows) > 0 && rowEquals(sheet.Rows[0], model.LeadColumns) {
		return
	}

	header := sheet.AddRow()
	writeRow(header, model.LeadColumns)
	if len(sheet.Rows) > 1 {
		rows := make([]*xlsx.Row, 0, len(sheet.Rows))
		rows = append(rows, header)
		rows = append(rows, sheet.Rows[:len(sheet.Rows)-1]...)
		sheet.Rows = rows
	}
}

func rowEquals(row *xlsx.Row, values []string) bool {
	if row == nil || len(row.Cells) < len(values) {
		return false
	}
	for i, v := range values {
		if row.Cells[i].String() != v {
			return false
		}
	}
	return true
}

func writeRow(row *xlsx.Row, values []string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
