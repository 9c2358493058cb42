package deck

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/san-kum/ressim/internal/simerr"
)

type token struct {
	text string
	line int
}

// tokenize splits keyword-deck content into whitespace-separated tokens.
// "--" starts a comment running to end of line; "/" is always its own token.
func tokenize(r io.Reader) ([]token, error) {
	var toks []token
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.Index(text, "--"); i >= 0 {
			text = text[:i]
		}
		text = strings.ReplaceAll(text, "/", " / ")
		for _, f := range strings.Fields(text) {
			toks = append(toks, token{text: f, line: line})
		}
	}
	return toks, sc.Err()
}

func isKeyword(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsLetter(r[0])
}

// keywordBlock is a keyword followed by its values up to the closing "/".
type keywordBlock struct {
	name   string
	line   int
	values []token
}

func blocks(file string, toks []token) ([]keywordBlock, error) {
	var out []keywordBlock
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if !isKeyword(t.text) {
			return nil, &simerr.ParseError{File: file, Line: t.line, Message: fmt.Sprintf("expected keyword, got %q", t.text)}
		}
		b := keywordBlock{name: strings.ToUpper(t.text), line: t.line}
		closed := false
		for i++; i < len(toks); i++ {
			if toks[i].text == "/" {
				closed = true
				break
			}
			b.values = append(b.values, toks[i])
		}
		if !closed {
			return nil, &simerr.ParseError{File: file, Line: t.line, Message: fmt.Sprintf("keyword %s is not terminated by /", b.name)}
		}
		out = append(out, b)
	}
	return out, nil
}

// MaxValues bounds the expanded length of one keyword block.
const MaxValues = 50_000_000

// floats expands the block values, honouring "n*v" repeats.
func (b keywordBlock) floats(file string) ([]float64, error) {
	vals := make([]float64, 0, len(b.values))
	for _, t := range b.values {
		if count, v, ok := strings.Cut(t.text, "*"); ok {
			n, err := strconv.Atoi(count)
			if err != nil || n < 0 {
				return nil, &simerr.ParseError{File: file, Line: t.line, Message: fmt.Sprintf("%s: bad repeat count in %q", b.name, t.text)}
			}
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, &simerr.ParseError{File: file, Line: t.line, Message: fmt.Sprintf("%s: bad value in %q", b.name, t.text)}
			}
			if n > MaxValues-len(vals) {
				return nil, &simerr.ParseError{File: file, Line: t.line,
					Message: fmt.Sprintf("%s: %q expands past %d values", b.name, t.text, MaxValues)}
			}
			for k := 0; k < n; k++ {
				vals = append(vals, x)
			}
			continue
		}
		x, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &simerr.ParseError{File: file, Line: t.line, Message: fmt.Sprintf("%s: bad value %q", b.name, t.text)}
		}
		if len(vals) >= MaxValues {
			return nil, &simerr.ParseError{File: file, Line: t.line, Message: fmt.Sprintf("%s: more than %d values", b.name, MaxValues)}
		}
		vals = append(vals, x)
	}
	return vals, nil
}
