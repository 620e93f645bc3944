package table

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/pepmove/fleetboard/pkg/logger"
	"github.com/pepmove/fleetboard/pkg/metrics"
)

// ReadCSV decodes a CSV stream with a header row into a Table. Ragged
// rows are tolerated; a stream without a header yields an empty Table.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged exports

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, err
	}

	t := New(header...)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, err
		}
		t.AppendRow(record...)
	}
	return t, nil
}

// LoadCSV reads the file at path into a Table. All failures (missing
// file, unreadable content) are downgraded to an empty Table plus a
// diagnostic log line; no error escapes this operation. A zero-byte or
// header-only file is a valid empty Table, not a failure.
func LoadCSV(ctx context.Context, path string) Table {
	source := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		logger.Get().Warn(ctx, "csv file not readable, using empty table",
			logger.String("path", path),
			logger.Error(err),
		)
		metrics.RecordLoadFailure(source, "missing_file")
		return Table{}
	}
	defer func() { _ = f.Close() }()

	t, err := ReadCSV(f)
	if err != nil {
		logger.Get().Warn(ctx, "csv parse failed, using empty table",
			logger.String("path", path),
			logger.Error(err),
		)
		metrics.RecordLoadFailure(source, "parse_error")
		return Table{}
	}

	metrics.RecordRowsLoaded(source, t.NumRows())
	logger.Get().Debug(ctx, "loaded csv",
		logger.String("path", path),
		logger.Int("rows", t.NumRows()),
		logger.Int("columns", len(t.Columns)),
	)
	return t
}

// WriteCSV encodes a table to w with its header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
