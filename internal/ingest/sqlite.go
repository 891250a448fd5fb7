package ingest

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteWorkbook reads each table of a SQLite database as a sheet.
type SQLiteWorkbook struct {
	db    *gorm.DB
	names []string
}

// OpenSQLite opens the database at path.
func OpenSQLite(path string) (*SQLiteWorkbook, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite workbook: %w", err)
	}
	return NewSQLiteWorkbook(db)
}

// NewSQLiteWorkbook wraps an open database connection.
func NewSQLiteWorkbook(db *gorm.DB) (*SQLiteWorkbook, error) {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	var names []string
	for _, t := range tables {
		if !strings.HasPrefix(t, "sqlite_") {
			names = append(names, t)
		}
	}
	return &SQLiteWorkbook{db: db, names: names}, nil
}

// SheetNames returns the table names.
func (w *SQLiteWorkbook) SheetNames() []string {
	return w.names
}

// Rows reads every row of a table with fields in column order.
func (w *SQLiteWorkbook) Rows(sheet string) ([]Row, error) {
	found := false
	for _, n := range w.names {
		if n == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	cols, err := w.db.Migrator().ColumnTypes(sheet)
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", sheet, err)
	}

	var records []map[string]interface{}
	if err := w.db.Table(sheet).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("read table %s: %w", sheet, err)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, 0, len(cols))
		for _, c := range cols {
			v := rec[c.Name()]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row = append(row, Field{Name: c.Name(), Value: v})
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close closes the underlying connection.
func (w *SQLiteWorkbook) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
