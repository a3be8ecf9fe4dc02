package template

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// EvalOffset evaluates an integer offset expression with template variables.
// Supported: integer literals, variable names, unary minus, +, -, *, and
// parentheses. Example: "-(lead_time+5)" with {"lead_time": 30} => -35.
func EvalOffset(expr string, vars map[string]int) (int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("empty offset expression")
	}

	p := &offsetParser{src: expr, vars: vars}
	n, err := p.sum()
	if err != nil {
		return 0, err
	}
	p.ws()
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.src[p.pos], p.pos)
	}
	return n, nil
}

type offsetParser struct {
	src  string
	pos  int
	vars map[string]int
}

func (p *offsetParser) sum() (int, error) {
	left, err := p.product()
	if err != nil {
		return 0, err
	}
	for {
		p.ws()
		if p.pos >= len(p.src) || (p.src[p.pos] != '+' && p.src[p.pos] != '-') {
			return left, nil
		}
		op := p.src[p.pos]
		p.pos++
		right, err := p.product()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *offsetParser) product() (int, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		p.ws()
		if p.pos >= len(p.src) || p.src[p.pos] != '*' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		left *= right
	}
}

func (p *offsetParser) term() (int, error) {
	p.ws()
	if p.pos >= len(p.src) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	switch ch := p.src[p.pos]; {
	case ch == '-':
		p.pos++
		n, err := p.term()
		return -n, err

	case ch == '(':
		p.pos++
		n, err := p.sum()
		if err != nil {
			return 0, err
		}
		p.ws()
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		p.pos++
		return n, nil

	case unicode.IsDigit(rune(ch)):
		start := p.pos
		for p.pos < len(p.src) && unicode.IsDigit(rune(p.src[p.pos])) {
			p.pos++
		}
		return strconv.Atoi(p.src[start:p.pos])

	case unicode.IsLetter(rune(ch)) || ch == '_':
		start := p.pos
		for p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
			p.pos++
		}
		name := p.src[start:p.pos]
		n, ok := p.vars[name]
		if !ok {
			return 0, fmt.Errorf("undefined variable: %s", name)
		}
		return n, nil
	}

	return 0, fmt.Errorf("unexpected character %q at position %d", p.src[p.pos], p.pos)
}

func (p *offsetParser) ws() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func isIdentChar(c byte) bool {
	return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_'
}
