package deck

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// PropertySet holds the arrays found in a GRDECL property file. Arrays that
// were not present are nil.
type PropertySet struct {
	Porosity []float64
	NTG      []float64
	PermX    []float64
	PermY    []float64
	PermZ    []float64
	Actnum   []float64
}

func ReadProperties(path string) (*PropertySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseProperties(f, path)
}

// ParseProperties reads PORO, NTG, PERMX, PERMY, PERMZ and ACTNUM. Other
// keywords are skipped.
func ParseProperties(r io.Reader, file string) (*PropertySet, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	bs, err := blocks(file, toks)
	if err != nil {
		return nil, err
	}

	ps := &PropertySet{}
	targets := map[string]*[]float64{
		"PORO":   &ps.Porosity,
		"NTG":    &ps.NTG,
		"PERMX":  &ps.PermX,
		"PERMY":  &ps.PermY,
		"PERMZ":  &ps.PermZ,
		"ACTNUM": &ps.Actnum,
	}
	for _, b := range bs {
		dst, ok := targets[b.name]
		if !ok {
			logrus.Debugf("%s:%d: skipping keyword %s", file, b.line, b.name)
			continue
		}
		vals, err := b.floats(file)
		if err != nil {
			return nil, err
		}
		*dst = vals
	}
	return ps, nil
}
