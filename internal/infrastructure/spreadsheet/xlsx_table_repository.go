// Package spreadsheet internal/infrastructure/spreadsheet/xlsx_table_repository.go
package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/damon-houk/fx-quote-reconciler/internal/domain/entity"
	"github.com/damon-houk/fx-quote-reconciler/internal/infrastructure/logger"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// XLSXTableRepository implements the TableRepository interface using excelize
type XLSXTableRepository struct {
	logger logger.Logger
}

// NewXLSXTableRepository creates a new workbook-backed table repository
func NewXLSXTableRepository(log logger.Logger) *XLSXTableRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &XLSXTableRepository{logger: log.WithField("component", "spreadsheet")}
}

// Load reads the first worksheet; row 1 is the header and column A holds currency codes
func (r *XLSXTableRepository) Load(ctx context.Context, path string) (*entity.Table, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", entity.ErrInputUnreadable, path)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrInputUnreadable, err)
	}
	defer r.close(f, path)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", entity.ErrEmptyInput)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", entity.ErrInputUnreadable, sheet, err)
	}

	var header []string
	var body [][]string
	if len(rows) > 0 {
		header = rows[0]
		body = rows[1:]
	}

	// data rows may be wider than the header; unnamed columns keep an empty name
	width := len(header)
	for _, row := range body {
		if len(row) > width {
			width = len(row)
		}
	}
	if width > len(header) {
		header = append(header, make([]string, width-len(header))...)
	}

	table := entity.NewTable(header, body)
	table.Source = path
	table.Sheet = sheet

	r.logger.Info("Workbook loaded", map[string]interface{}{
		"path":    path,
		"sheet":   sheet,
		"columns": len(table.Columns),
		"rows":    len(table.Rows),
	})

	return table, nil
}

// Save writes the table to path. When the table came from a workbook, that workbook is
// reopened and only the appended headers and reconciled cells are written, so every other
// cell keeps its original type and formatting. The source file itself is never written.
func (r *XLSXTableRepository) Save(ctx context.Context, table *entity.Table, path string) error {
	if err := checkExtension(path); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrPersistence, err)
	}
	if table.Source != "" && samePath(table.Source, path) {
		return fmt.Errorf("%w: refusing to overwrite input %s", entity.ErrPersistence, path)
	}

	f, sheet, fresh, err := r.open(table)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	defer r.close(f, path)

	if err := writeTable(f, sheet, table, fresh); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	r.logger.Info("Workbook saved", map[string]interface{}{
		"path":          path,
		"sheet":         sheet,
		"columns_added": len(table.AddedColumns()),
	})

	return nil
}

func (r *XLSXTableRepository) open(table *entity.Table) (*excelize.File, string, bool, error) {
	if table.Source == "" {
		f := excelize.NewFile()
		sheet := table.Sheet
		if sheet == "" || sheet == defaultSheet {
			return f, defaultSheet, true, nil
		}
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			f.Close()
			return nil, "", false, err
		}
		return f, sheet, true, nil
	}

	f, err := excelize.OpenFile(table.Source)
	if err != nil {
		return nil, "", false, fmt.Errorf("reopen %s: %w", table.Source, err)
	}

	sheet := table.Sheet
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}
	return f, sheet, false, nil
}

// writeTable writes headers and cells. For a fresh workbook every cell is written; otherwise
// only columns appended after load and cells holding a reconciled quote.
func writeTable(f *excelize.File, sheet string, table *entity.Table, fresh bool) error {
	firstNew := table.LoadedWidth
	if fresh {
		firstNew = 0
	}

	for col := firstNew; col < len(table.Columns); col++ {
		name, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, name, table.Columns[col]); err != nil {
			return err
		}
	}

	for i, row := range table.Rows {
		line := row.Line
		if line == 0 || fresh {
			line = i + 2
		}

		for col, cell := range row.Cells {
			if !cell.Quote.Valid && !(fresh && cell.Text != "") {
				continue
			}

			name, err := excelize.CoordinatesToCellName(col+1, line)
			if err != nil {
				return err
			}

			if cell.Quote.Valid {
				err = f.SetCellFloat(sheet, name, cell.Quote.Decimal.InexactFloat64(), -1, 64)
			} else {
				err = f.SetCellStr(sheet, name, cell.Text)
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *XLSXTableRepository) close(f *excelize.File, path string) {
	if err := f.Close(); err != nil {
		r.logger.Warn("Error closing workbook", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func checkExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: %q (supported: .xlsx, .xlsm, .xltx, .xltm)", entity.ErrUnsupportedFormat, ext)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
