package file

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/common"
)

// ReadCSVRows parses raw CSV/TSV bytes into a row matrix, auto-detecting the
// delimiter the way internal/domain/import/sniffer.go does.
func ReadCSVRows(data []byte) ([][]string, error) {
	delim := sniffDelimiter(string(data))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// ReadXLSXRows reads the first sheet of an XLSX workbook into a row matrix.
// If password is non-empty and the workbook is encrypted, it is used to
// decrypt; a wrong password surfaces as common.ErrDecryptionFailed to the
// caller.
func ReadXLSXRows(data []byte, password string) ([][]string, error) {
	var f *excelize.File
	var err error
	if password != "" {
		f, err = excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: password})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
		}
	} else {
		f, err = excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("file: open xlsx: %w", err)
		}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("file: read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
