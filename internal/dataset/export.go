package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the column order written by ExportCSV.
var CSVHeader = []string{"dataset", "subject", "filename", "filepath", "frames", "duration", "file_size_mb", "fps"}

// ExportCSV writes one row per record in the catalog. Duration and fps come
// from each record's own header.
func ExportCSV(w io.Writer, c *Catalog) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, d := range c.Datasets {
		for _, s := range d.Subjects {
			for _, r := range s.Records {
				err := cw.Write([]string{
					d.Name,
					s.Name,
					r.Name,
					r.Path,
					strconv.Itoa(r.Frames),
					formatFloat(r.Duration()),
					formatFloat(r.SizeMB()),
					formatFloat(r.FPS),
				})
				if err != nil {
					return rows, fmt.Errorf("write csv row for %s: %w", r.Path, err)
				}
				rows++
			}
		}
	}
	cw.Flush()
	return rows, cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
