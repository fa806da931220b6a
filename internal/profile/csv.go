package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"shoken-assist/backend/internal/model"
)

var csvHeader = []string{"key", "value"}

// WriteCSV writes rows as a key,value CSV with a header line
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Key, r.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a key,value CSV. The header line is optional.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows []Row
	for line := 0; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &model.ProfileLoadError{Cause: fmt.Errorf("read profile csv: %w", err)}
		}
		if len(record) == 0 {
			continue
		}
		if line == 0 && strings.EqualFold(strings.TrimPrefix(record[0], "\ufeff"), csvHeader[0]) {
			continue
		}
		row := Row{Key: strings.TrimPrefix(record[0], "\ufeff")}
		if len(record) > 1 {
			row.Value = record[1]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
