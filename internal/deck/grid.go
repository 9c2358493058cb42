package deck

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/ressim/internal/simerr"
)

// GridSpec is the normalized content of a grid keyword file.
type GridSpec struct {
	NX, NY, NZ int
	XLength    float64
	YLength    float64
	Thickness  []float64
	Active     []bool
}

// ReadGrid parses the grid file at path.
func ReadGrid(path string) (*GridSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseGrid(f, path)
}

// ParseGrid reads DIMENS, COORDX, COORDY, THICKNESS and ACTNUM blocks.
// Missing blocks fall back to a single unit cell; a missing ACTNUM makes
// every cell active.
func ParseGrid(r io.Reader, file string) (*GridSpec, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	bs, err := blocks(file, toks)
	if err != nil {
		return nil, err
	}

	data := map[string][]float64{
		"DIMENS":    {1, 1, 1},
		"COORDX":    {0, 1},
		"COORDY":    {0, 1},
		"THICKNESS": {1},
	}
	for _, b := range bs {
		vals, err := b.floats(file)
		if err != nil {
			return nil, err
		}
		data[b.name] = vals
	}

	dimens := data["DIMENS"]
	if len(dimens) != 3 {
		return nil, &simerr.ParseError{File: file, Message: fmt.Sprintf("DIMENS needs 3 values, got %d", len(dimens))}
	}
	for _, key := range []string{"COORDX", "COORDY"} {
		if len(data[key]) < 2 {
			return nil, &simerr.ParseError{File: file, Message: fmt.Sprintf("%s needs 2 values, got %d", key, len(data[key]))}
		}
	}

	spec := &GridSpec{
		NX:        int(dimens[0]),
		NY:        int(dimens[1]),
		NZ:        int(dimens[2]),
		XLength:   data["COORDX"][1] - data["COORDX"][0],
		YLength:   data["COORDY"][1] - data["COORDY"][0],
		Thickness: data["THICKNESS"],
	}

	if act, ok := data["ACTNUM"]; ok {
		spec.Active = make([]bool, len(act))
		for i, v := range act {
			spec.Active[i] = v != 0
		}
	} else {
		logrus.Debugf("%s: no ACTNUM, all %d cells active", file, spec.NX*spec.NY*spec.NZ)
		spec.Active = make([]bool, spec.NX*spec.NY*spec.NZ)
		for i := range spec.Active {
			spec.Active[i] = true
		}
	}
	return spec, nil
}
