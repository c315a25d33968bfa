package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// csvHeader is the fixed header of the results file
var csvHeader = []string{"filename", "label", "folder", "file_size", "modified_time"}

// WriteCSV writes one row per labeled entry
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.Filename,
			string(e.Label),
			e.Folder(),
			strconv.FormatInt(e.Size, 10),
			e.ModTimeString(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", e.Filename, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
