package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arloliu/qty/errs"
)

// parser is a single-pass scanner over a unit expression.
//
// Grammar:
//
//	expr     = term { sep term }
//	sep      = "*" | "/" | whitespace
//	term     = (symbol | number) [ ("^" | "**") exponent ]
//	exponent = [ "+" | "-" ] digits [ "." digits ]
//
// Every term after the first "/" belongs to the denominator.
type parser struct {
	reg *Registry
	src string
	pos int

	terms    []Term
	nums     []factorTerm
	rawTerms int
	affine   string
}

func (r *Registry) parse(expr string) (Units, error) {
	s := strings.TrimSpace(expr)
	if s == "" || s == "n/a" {
		return Units{}, nil
	}

	p := &parser{reg: r, src: s}
	if err := p.run(); err != nil {
		return Units{}, fmt.Errorf("%w: %q: %w", errs.ErrUnitsParse, expr, err)
	}

	return newUnits(p.terms, p.nums), nil
}

func (p *parser) run() error {
	sign := 1.0
	expectTerm := true
	for {
		spaced := p.skipSpace()
		if p.eof() {
			break
		}

		c := p.src[p.pos]
		if c == '*' || c == '/' {
			if expectTerm {
				return fmt.Errorf("unexpected %q at offset %d", c, p.pos)
			}
			if c == '/' {
				sign = -1
			}
			p.pos++
			expectTerm = true

			continue
		}
		if !expectTerm && !spaced {
			return fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
		}

		if err := p.term(sign); err != nil {
			return err
		}
		expectTerm = false
	}

	if expectTerm {
		return fmt.Errorf("expression ends with an operator")
	}

	if p.affine != "" && (p.rawTerms != 1 || len(p.nums) != 0 || len(p.terms) != 1 || p.terms[0].Exponent != 1) {
		return fmt.Errorf("%w: offset unit %q must stand alone", errs.ErrInvalidOperation, p.affine)
	}

	return nil
}

func (p *parser) term(sign float64) error {
	p.rawTerms++
	c := p.src[p.pos]
	if isNumberStart(c) {
		v, err := p.number()
		if err != nil {
			return err
		}
		exp, err := p.exponent()
		if err != nil {
			return err
		}
		if pv := math.Pow(v, exp); v <= 0 || pv <= 0 || math.IsInf(pv, 0) || math.IsNaN(pv) {
			return fmt.Errorf("numeric factor %v must be positive and finite", pv)
		}
		p.nums = mergeFactor(p.nums, factorTerm{value: v, exponent: exp * sign})

		return nil
	}

	name := p.symbol()
	if name == "" {
		return fmt.Errorf("unexpected %q at offset %d", p.rest(), p.pos)
	}
	exp, err := p.exponent()
	if err != nil {
		return err
	}
	t, err := p.reg.resolve(name)
	if err != nil {
		return err
	}
	if t.offset != 0 {
		p.affine = name
	}
	t.Exponent = exp * sign
	p.terms = mergeTerm(p.terms, t)

	return nil
}

// exponent parses an optional "^e" or "**e" suffix; it returns 1 when absent.
func (p *parser) exponent() (float64, error) {
	switch {
	case strings.HasPrefix(p.src[p.pos:], "**"):
		p.pos += 2
	case strings.HasPrefix(p.src[p.pos:], "^"):
		p.pos++
	default:
		return 1, nil
	}

	start := p.pos
	if !p.eof() && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
		p.pos++
	}
	digits := p.pos
	for !p.eof() && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if p.pos == digits {
		return 0, fmt.Errorf("missing exponent at offset %d", start)
	}

	e, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed exponent %q", p.src[start:p.pos])
	}

	return e, nil
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for !p.eof() && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	// scientific notation, e.g. 1e-3; an "e" not followed by digits starts a symbol
	if !p.eof() && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		i := p.pos + 1
		if i < len(p.src) && (p.src[i] == '-' || p.src[i] == '+') {
			i++
		}
		if i < len(p.src) && isDigit(p.src[i]) {
			for i < len(p.src) && isDigit(p.src[i]) {
				i++
			}
			p.pos = i
		}
	}

	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q", p.src[start:p.pos])
	}

	return v, nil
}

func (p *parser) symbol() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isSymbolRune(r) {
			break
		}
		p.pos += size
	}

	return p.src[start:p.pos]
}

func (p *parser) skipSpace() bool {
	start := p.pos
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}

	return p.pos > start
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) rest() string {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return string(r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberStart(c byte) bool {
	return isDigit(c) || c == '.'
}

func isSymbolRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '°'
}
