package patterns

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ErrMalformedPattern is returned for pattern files that cannot be imported
var ErrMalformedPattern = errors.New("malformed pattern file")

// File is the exchange format for exported patterns
type File struct {
	Name    string  `json:"name"`
	Pattern [][]int `json:"pattern"`
	Author  string  `json:"author"`
	Date    string  `json:"date"`
}

// NewFile wraps p for export, stamped with the given author and time
func NewFile(p Pattern, author string, at time.Time) File {
	rows := make([][]int, len(p.Rows))
	for y, row := range p.Rows {
		rows[y] = make([]int, len(row))
		for x, v := range row {
			rows[y][x] = int(v)
		}
	}
	return File{
		Name:    p.Name,
		Pattern: rows,
		Author:  author,
		Date:    at.UTC().Format(time.RFC3339),
	}
}

// Encode renders f as indented JSON
func (f File) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "[Encode] failed to marshal pattern: %+v", f.Name)
	}
	return data, nil
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedPattern, format, args...)
}

// DecodeFile parses a pattern file. Only the pattern field is required; it
// must be an array of equal-length rows of 0/1 numbers.
func DecodeFile(data []byte) (Pattern, error) {
	if !gjson.ValidBytes(data) {
		return Pattern{}, malformed("[DecodeFile] invalid JSON")
	}

	field := gjson.GetBytes(data, "pattern")
	if !field.Exists() {
		return Pattern{}, malformed("[DecodeFile] missing pattern field")
	}
	if !field.IsArray() {
		return Pattern{}, malformed("[DecodeFile] pattern is %s, want array", field.Type)
	}

	rawRows := field.Array()
	rows := make([][]uint8, 0, len(rawRows))
	width := -1
	for y, rawRow := range rawRows {
		if !rawRow.IsArray() {
			return Pattern{}, malformed("[DecodeFile] row %d is not an array", y)
		}
		cells := rawRow.Array()
		if width == -1 {
			width = len(cells)
			if width == 0 {
				return Pattern{}, malformed("[DecodeFile] row %d is empty", y)
			}
		}
		if len(cells) != width {
			return Pattern{}, malformed("[DecodeFile] row %d has %d cells, want %d", y, len(cells), width)
		}

		row := make([]uint8, width)
		for x, cell := range cells {
			if cell.Type != gjson.Number || (cell.Num != 0 && cell.Num != 1) {
				return Pattern{}, malformed("[DecodeFile] cell (%d,%d) is %s, want 0 or 1", x, y, cell.Raw)
			}
			row[x] = uint8(cell.Num)
		}
		rows = append(rows, row)
	}

	name := gjson.GetBytes(data, "name").String()
	if name == "" {
		name = "imported"
	}
	return Pattern{Name: name, Rows: rows}, nil
}
