package deck

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/ressim/internal/simerr"
)

// PVTColumns are the three table columns in file units.
type PVTColumns struct {
	Pressure  []float64
	Bo        []float64
	Viscosity []float64
}

// CSVDialect describes the separators of a PVT CSV file.
type CSVDialect struct {
	Separator rune
	Decimal   rune
}

// DefaultDialect is ";" between fields and "," as decimal mark.
var DefaultDialect = CSVDialect{Separator: ';', Decimal: ','}

func ReadPVT(path string, d CSVDialect) (*PVTColumns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePVT(f, path, d)
}

// ParsePVT locates the pressure, Bo and viscosity columns by header
// substring and reads every data row.
func ParsePVT(r io.Reader, file string, d CSVDialect) (*PVTColumns, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.Separator
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &simerr.ParseError{File: file, Line: 1, Message: fmt.Sprintf("reading header: %v", err)}
	}
	for i := range header {
		header[i] = strings.ToUpper(strings.TrimSpace(header[i]))
	}

	used := map[int]bool{}
	find := func(subs ...string) int {
		for i, h := range header {
			if used[i] {
				continue
			}
			for _, s := range subs {
				if strings.Contains(h, s) {
					used[i] = true
					return i
				}
			}
		}
		return -1
	}
	colP := find("PRESS")
	colBo := find("BO", "FACTOR", "FATOR")
	colMu := find("VISC", "U_O", "MI")
	if colP < 0 || colBo < 0 || colMu < 0 {
		return nil, &simerr.ParseError{File: file, Line: 1,
			Message: fmt.Sprintf("cannot identify pressure, Bo and viscosity columns in %v", header)}
	}

	cols := &PVTColumns{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &simerr.ParseError{File: file, Line: line, Message: err.Error()}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		var vals [3]float64
		for k, c := range [...]int{colP, colBo, colMu} {
			if c >= len(rec) {
				return nil, &simerr.ParseError{File: file, Line: line, Message: fmt.Sprintf("row has %d fields", len(rec))}
			}
			v, err := parseNumber(rec[c], d.Decimal)
			if err != nil {
				return nil, &simerr.ParseError{File: file, Line: line, Message: fmt.Sprintf("column %s: %v", header[c], err)}
			}
			vals[k] = v
		}
		cols.Pressure = append(cols.Pressure, vals[0])
		cols.Bo = append(cols.Bo, vals[1])
		cols.Viscosity = append(cols.Viscosity, vals[2])
	}
	return cols, nil
}

func parseNumber(s string, decimal rune) (float64, error) {
	s = strings.TrimSpace(s)
	if decimal != '.' {
		s = strings.ReplaceAll(s, string(decimal), ".")
	}
	return strconv.ParseFloat(s, 64)
}
